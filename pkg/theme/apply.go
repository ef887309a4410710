package theme

import "gitlab.com/tinyland/lab/tomato/pkg/timer"

// StateColor returns the label color for a snapshot. A running countdown
// at zero uses Done.
func (t Theme) StateColor(snap timer.Model) string {
	switch snap.State() {
	case timer.Running:
		if snap.Done() {
			return t.Done
		}
		return t.Running
	case timer.Paused:
		return t.Paused
	default:
		return t.Stopped
	}
}

// StateLabel returns the text shown under the clock.
func StateLabel(snap timer.Model) string {
	if snap.State() == timer.Running && snap.Done() {
		return "Done"
	}
	return snap.State().String()
}
