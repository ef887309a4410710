// Package timer holds the countdown model: the remaining duration and the
// run state, plus the transitions that are allowed between states.
//
// Model has no concurrency awareness of its own. Callers that share one
// Model between goroutines go through pkg/state.
package timer

import (
	"fmt"
	"time"
)

// DefaultMinutes is the session length used when none is configured.
const DefaultMinutes = 25

// ResetMinutes is the session length a reset always restores. It is fixed
// and does not follow the configured start duration.
const ResetMinutes = 25

// State is the run state of the countdown.
type State int

const (
	// Stopped is the initial state and the state after a reset.
	Stopped State = iota
	// Running counts down on every tick.
	Running
	// Paused holds the remaining time until toggled again.
	Paused
)

var stateNames = [...]string{
	Stopped: "Stopped",
	Running: "Running",
	Paused:  "Paused",
}

// String returns the display label of the state.
func (s State) String() string {
	if s.Valid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return s >= Stopped && s <= Paused
}

// Model is a single countdown. The zero value is a stopped timer with no
// time left.
type Model struct {
	remaining time.Duration
	total     time.Duration
	state     State
}

// New returns a stopped countdown of the given length in minutes. Negative
// lengths are treated as zero.
func New(minutes int) Model {
	d := minutesToDuration(minutes)
	return Model{remaining: d, total: d, state: Stopped}
}

// Reset discards any countdown in progress, loads the given length and
// stops the timer.
func (m *Model) Reset(minutes int) {
	d := minutesToDuration(minutes)
	m.remaining = d
	m.total = d
	m.state = Stopped
}

// Tick advances a running countdown by one second. It is a no-op when the
// timer is not running or has already reached zero.
func (m *Model) Tick() {
	if m.state != Running || m.remaining <= 0 {
		return
	}
	m.remaining -= time.Second
	if m.remaining < 0 {
		m.remaining = 0
	}
}

// Toggle flips between running and paused. A stopped timer starts running.
// Only Reset returns the timer to Stopped.
func (m *Model) Toggle() {
	switch m.state {
	case Running:
		m.state = Paused
	case Paused, Stopped:
		m.state = Running
	}
}

// Remaining returns the time left in the countdown.
func (m Model) Remaining() time.Duration { return m.remaining }

// Total returns the length the countdown was last loaded with.
func (m Model) Total() time.Duration { return m.total }

// State returns the current run state.
func (m Model) State() State { return m.state }

// Done reports whether the countdown has reached zero.
func (m Model) Done() bool { return m.remaining <= 0 }

// Progress returns the elapsed fraction of the countdown in [0, 1]. A
// zero-length countdown reports 1.
func (m Model) Progress() float64 {
	if m.total <= 0 {
		return 1
	}
	p := float64(m.total-m.remaining) / float64(m.total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Clock formats the remaining time as MM:SS. Minutes are not wrapped at
// the hour, so a 90 minute countdown reads "90:00".
func (m Model) Clock() string {
	secs := int64(m.remaining / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func minutesToDuration(minutes int) time.Duration {
	if minutes < 0 {
		minutes = 0
	}
	return time.Duration(minutes) * time.Minute
}
