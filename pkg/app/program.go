package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/tomato/pkg/engine"
	"gitlab.com/tinyland/lab/tomato/pkg/keymap"
	"gitlab.com/tinyland/lab/tomato/pkg/terminal"
	"gitlab.com/tinyland/lab/tomato/pkg/theme"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
	"gitlab.com/tinyland/lab/tomato/pkg/tui"
)

// ErrClosed is returned by Render and Poll once the program has exited.
var ErrClosed = errors.New("app: terminal program closed")

// eventBuffer bounds how many unread input events are held for the engine.
const eventBuffer = 64

// Options configures a Program.
type Options struct {
	Theme        theme.Theme
	Keys         keymap.Map
	ShowHelp     bool
	ShowProgress bool
	Mouse        bool
	// AltScreen switches to the alternate screen for the program's lifetime.
	AltScreen bool
	Initial   timer.Model
	// Input and Output default to the controlling terminal.
	Input  io.Reader
	Output io.Writer
	Logger *slog.Logger
}

// Program runs the bubbletea program in the background. It owns terminal
// setup and teardown.
type Program struct {
	prog   *tea.Program
	zones  *zone.Manager
	events chan engine.Event
	logger *slog.Logger

	startOnce sync.Once
	done      chan struct{}
	err       error
}

var (
	_ engine.Source = (*Program)(nil)
	_ engine.Sink   = (*Program)(nil)
)

// New builds a Program. Nothing touches the terminal until Start.
func New(opts Options) *Program {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Program{
		events: make(chan engine.Event, eventBuffer),
		logger: logger,
		done:   make(chan struct{}),
	}
	if opts.Mouse {
		p.zones = zone.New()
	}

	var renderer *lipgloss.Renderer
	if opts.Output != nil {
		renderer = lipgloss.NewRenderer(opts.Output)
	}
	view := tui.New(tui.Options{
		Theme:        opts.Theme,
		Keys:         opts.Keys,
		ShowHelp:     opts.ShowHelp,
		ShowProgress: opts.ShowProgress,
		Zones:        p.zones,
		Renderer:     renderer,
	})

	model := NewModel(view, p.zones, opts.Keys, p.events, opts.Initial)
	if size := terminal.GetSize(); size.Cols > 0 && size.Rows > 0 {
		model.width, model.height = size.Cols, size.Rows
	}

	var teaOpts []tea.ProgramOption
	if opts.AltScreen {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	}
	if opts.Mouse {
		teaOpts = append(teaOpts, tea.WithMouseCellMotion())
	}
	if opts.Input != nil {
		teaOpts = append(teaOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		teaOpts = append(teaOpts, tea.WithOutput(opts.Output))
	}

	p.prog = tea.NewProgram(model, teaOpts...)
	return p
}

// Start enters the terminal mode and begins reading input. It returns
// immediately; later calls do nothing.
func (p *Program) Start() {
	p.startOnce.Do(func() {
		go func() {
			defer close(p.done)
			p.finish(p.prog.Run())
		}()
	})
}

// finish records how the program ended. It runs before done is closed.
func (p *Program) finish(final tea.Model, err error) {
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	p.err = err
	if m, ok := final.(Model); ok && m.dropped > 0 {
		p.logger.Warn("input events dropped", "count", m.dropped)
	}
	p.logger.Debug("terminal program exited", "error", err)
}

// Poll implements engine.Source.
func (p *Program) Poll(ctx context.Context, timeout time.Duration) (engine.Event, bool, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case ev := <-p.events:
		return ev, true, nil
	case <-p.done:
		if p.err != nil {
			return engine.Event{}, false, fmt.Errorf("%w: %v", ErrClosed, p.err)
		}
		return engine.Event{}, false, io.EOF
	case <-t.C:
		return engine.Event{}, false, nil
	case <-ctx.Done():
		return engine.Event{}, false, ctx.Err()
	}
}

// Render implements engine.Sink.
func (p *Program) Render(snap timer.Model) error {
	select {
	case <-p.done:
		if p.err != nil {
			return fmt.Errorf("%w: %v", ErrClosed, p.err)
		}
		return ErrClosed
	default:
	}
	p.prog.Send(SnapshotMsg{Snap: snap})
	return nil
}

// Close quits the program and waits until the terminal is restored. It
// returns the error the program exited with, if any.
func (p *Program) Close() error {
	p.startOnce.Do(func() { close(p.done) })

	select {
	case <-p.done:
	default:
		p.prog.Quit()
		<-p.done
	}
	if p.zones != nil {
		p.zones.Close()
	}
	return p.err
}
