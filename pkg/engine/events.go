// Package engine runs the timer: a tick loop that advances the shared
// model once per second, an input loop that turns key presses into
// commands, and a render loop that repaints snapshots and owns shutdown.
//
// The three loops share one *state.Shared. No loop holds the lock across
// a wait: each acquires it, mutates or copies, and releases before the
// next select.
package engine

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// Kind distinguishes key presses from the release and repeat events some
// terminals report.
type Kind int

const (
	Press Kind = iota
	Repeat
	Release
)

// Event is one input event from the terminal. Key uses bubbletea key
// names ("q", "ctrl+c", " ").
type Event struct {
	Key  string
	Kind Kind
}

// Source supplies input events.
//
// Poll waits up to timeout for the next event. It returns ok=false when
// nothing arrived in time. io.EOF means no more input will ever arrive.
type Source interface {
	Poll(ctx context.Context, timeout time.Duration) (ev Event, ok bool, err error)
}

// Sink displays a snapshot of the timer. An error is fatal to the run.
type Sink interface {
	Render(snap timer.Model) error
}
