// Package headless drives the timer without a full screen terminal. Input
// is one key name per line; output is one status line per change. It is
// what runs when stdin or stdout is a pipe.
package headless

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/tomato/pkg/engine"
	"gitlab.com/tinyland/lab/tomato/pkg/theme"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// Source reads key names from r, one per line. Blank lines are skipped.
//
// The reader goroutine starts on the first Poll. Close stops it from
// handing over more lines; a Read already in progress still has to return
// first.
type Source struct {
	r        io.Reader
	once     sync.Once
	lines    chan string
	stop     chan struct{}
	stopOnce sync.Once
	exited   chan struct{}
	err      error
}

var _ engine.Source = (*Source)(nil)

// NewSource returns a Source reading from r.
func NewSource(r io.Reader) *Source {
	return &Source{
		r:      r,
		lines:  make(chan string),
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

func (s *Source) start() {
	go func() {
		defer close(s.exited)
		defer close(s.lines)
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			select {
			case s.lines <- sc.Text():
			case <-s.stop:
				return
			}
		}
		s.err = sc.Err()
	}()
}

// Close stops the reader goroutine. Later polls report io.EOF.
func (s *Source) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Poll implements engine.Source. The word "space" and a line holding a
// single space both map to the space key.
func (s *Source) Poll(ctx context.Context, timeout time.Duration) (engine.Event, bool, error) {
	select {
	case <-s.stop:
		return engine.Event{}, false, io.EOF
	default:
	}
	s.once.Do(s.start)

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case line, ok := <-s.lines:
		if !ok {
			if s.err != nil {
				return engine.Event{}, false, fmt.Errorf("headless: read: %w", s.err)
			}
			return engine.Event{}, false, io.EOF
		}
		name := keyName(line)
		if name == "" {
			return engine.Event{}, false, nil
		}
		return engine.Event{Key: name, Kind: engine.Press}, true, nil
	case <-t.C:
		return engine.Event{}, false, nil
	case <-ctx.Done():
		return engine.Event{}, false, ctx.Err()
	}
}

func keyName(line string) string {
	line = strings.TrimRight(line, "\r")
	if line == " " {
		return " "
	}
	return strings.TrimSpace(line)
}

// Sink writes "MM:SS  State" to w whenever the text changes.
type Sink struct {
	w     io.Writer
	r     *lipgloss.Renderer
	theme theme.Theme
	last  string
}

var _ engine.Sink = (*Sink)(nil)

// NewSink returns a Sink writing to w with the given colour profile.
// termenv.Ascii writes plain text.
func NewSink(w io.Writer, th theme.Theme, profile termenv.Profile) *Sink {
	return &Sink{
		w:     w,
		r:     lipgloss.NewRenderer(w, termenv.WithProfile(profile)),
		theme: th,
	}
}

// Render implements engine.Sink. Only the render loop calls it, so it
// needs no locking.
func (s *Sink) Render(snap timer.Model) error {
	clock := s.r.NewStyle().Foreground(lipgloss.Color(s.theme.Digits)).Render(snap.Clock())
	label := s.r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(s.theme.StateColor(snap))).
		Render(theme.StateLabel(snap))
	line := clock + "  " + label

	if line == s.last {
		return nil
	}
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return fmt.Errorf("headless: write: %w", err)
	}
	s.last = line
	return nil
}
