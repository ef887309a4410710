// Package tui draws the timer screen: the remaining time in block digits,
// the state label, a progress bar, clickable buttons and a help line.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/tomato/pkg/components"
	"gitlab.com/tinyland/lab/tomato/pkg/keymap"
	"gitlab.com/tinyland/lab/tomato/pkg/theme"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// Zone IDs for the clickable buttons.
const (
	ZoneToggle = "tomato-toggle"
	ZoneReset  = "tomato-reset"
	ZoneQuit   = "tomato-quit"
)

// frameOverhead is the border plus horizontal padding around the body.
const frameOverhead = 2 + 2*4

// Options configures a View.
type Options struct {
	Theme        theme.Theme
	Keys         keymap.Map
	ShowHelp     bool
	ShowProgress bool
	// Zones marks the buttons for mouse hit-testing. Nil hides the buttons.
	Zones *zone.Manager
	// Renderer defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer
}

// View renders snapshots. It is not safe for concurrent use; the bubbletea
// program calls it from its own goroutine only.
type View struct {
	opts Options
	r    *lipgloss.Renderer
	bar  progress.Model
	help help.Model
}

// New returns a View for opts.
func New(opts Options) *View {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	th := opts.Theme

	bar := progress.New(
		progress.WithGradient(th.ProgressFrom, th.ProgressTo),
		progress.WithoutPercentage(),
		progress.WithColorProfile(r.ColorProfile()),
	)
	bar.EmptyColor = th.ProgressEmpty

	h := help.New()
	h.Styles.ShortKey = r.NewStyle().Foreground(lipgloss.Color(th.HelpKey))
	h.Styles.ShortDesc = r.NewStyle().Foreground(lipgloss.Color(th.HelpDesc))
	h.Styles.ShortSeparator = r.NewStyle().Foreground(lipgloss.Color(th.Dim))

	return &View{opts: opts, r: r, bar: bar, help: h}
}

// Render draws snap centred in a width x height area. A zero size skips
// the placement and returns just the framed body. Small areas get the
// compact layout: a plain clock, no progress bar or buttons, and lines cut
// to the width.
func (v *View) Render(snap timer.Model, width, height int) string {
	th := v.opts.Theme

	digits := components.BigText(snap.Clock())
	clockW := components.BlockWidth(digits)
	compact := (width > 0 && width < clockW+frameOverhead) ||
		(height > 0 && height < components.DigitHeight+6)

	digitColor := th.Digits
	if snap.State() == timer.Running && snap.Done() {
		digitColor = th.Done
	}
	digitStyle := v.r.NewStyle().Foreground(lipgloss.Color(digitColor))

	var clock string
	if compact {
		clock = digitStyle.Bold(true).Render(snap.Clock())
		clockW = components.VisibleLen(snap.Clock())
	} else {
		clock = digitStyle.Render(strings.Join(digits, "\n"))
	}

	label := v.r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(th.StateColor(snap))).
		Render(theme.StateLabel(snap))

	parts := []string{clock, label}

	if v.opts.ShowProgress && !compact {
		v.bar.Width = clockW
		parts = append(parts, v.bar.ViewAs(snap.Progress()))
	}
	if v.opts.Zones != nil && !compact {
		parts = append(parts, v.buttons(snap))
	}
	if v.opts.ShowHelp {
		parts = append(parts, v.help.View(v.opts.Keys))
	}
	if compact && width > 0 {
		parts = fitWidth(parts, width-2)
	}

	body := lipgloss.JoinVertical(lipgloss.Center, spaced(parts, compact)...)

	frame := v.r.NewStyle().
		Foreground(lipgloss.Color(th.Foreground)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(th.Border))
	if !compact {
		frame = frame.Padding(1, 4)
	}
	framed := frame.Render(body)

	if width <= 0 || height <= 0 {
		return framed
	}
	return v.r.Place(width, height, lipgloss.Center, lipgloss.Center, framed)
}

// buttons renders the clickable start/pause, reset and quit buttons.
func (v *View) buttons(snap timer.Model) string {
	toggle := "start"
	if snap.State() == timer.Running {
		toggle = "pause"
	}

	style := v.r.NewStyle().
		Foreground(lipgloss.Color(v.opts.Theme.Accent)).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(v.opts.Theme.Dim)).
		Padding(0, 1)

	z := v.opts.Zones
	return lipgloss.JoinHorizontal(lipgloss.Top,
		z.Mark(ZoneToggle, style.Render(buttonLabel(v.opts.Keys.Toggle, toggle))),
		"  ",
		z.Mark(ZoneReset, style.Render(buttonLabel(v.opts.Keys.Reset, "reset"))),
		"  ",
		z.Mark(ZoneQuit, style.Render(buttonLabel(v.opts.Keys.Quit, "quit"))),
	)
}

func buttonLabel(b key.Binding, action string) string {
	return fmt.Sprintf("[%s] %s", b.Help().Key, action)
}

// fitWidth cuts every line of every part to w cells and centres it, so a
// compact body is exactly w wide.
func fitWidth(parts []string, w int) []string {
	if w <= 0 {
		return parts
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		lines := strings.Split(p, "\n")
		for j, l := range lines {
			lines[j] = components.PadCenter(components.Truncate(l, w), w)
		}
		out[i] = strings.Join(lines, "\n")
	}
	return out
}

// spaced puts a blank line between parts unless compact.
func spaced(parts []string, compact bool) []string {
	if compact {
		return parts
	}
	out := make([]string, 0, 2*len(parts)-1)
	for i, p := range parts {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, p)
	}
	return out
}
