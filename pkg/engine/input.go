package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"k8s.io/utils/clock"

	"gitlab.com/tinyland/lab/tomato/pkg/keymap"
	"gitlab.com/tinyland/lab/tomato/pkg/state"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// InputConfig tunes the input loop.
type InputConfig struct {
	// PollTimeout bounds each wait for an input event.
	PollTimeout time.Duration
	// IdleYield is slept between polls. Zero disables it.
	IdleYield time.Duration
	// ResetMinutes is the length a reset loads.
	ResetMinutes int
}

// InputLoop polls src and applies the bound commands to shared. On quit it
// sends one completion notice on done and returns. done is closed on every
// exit path, so a reader that finds it closed knows the loop is gone.
//
// End of input counts as quit. A lock failure or a source error ends the
// loop with that error.
func InputLoop(ctx context.Context, shared *state.Shared, src Source, keys keymap.Map,
	clk clock.Clock, done chan<- struct{}, cfg InputConfig, logger *slog.Logger) error {
	defer close(done)

	for {
		if ctx.Err() != nil {
			return nil
		}

		ev, ok, err := src.Poll(ctx, cfg.PollTimeout)
		switch {
		case errors.Is(err, io.EOF):
			logger.Debug("input closed")
			notify(done, logger)
			return nil
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("input: poll: %w", err)
		}

		if ok && ev.Kind == Press {
			cmd := keys.Command(ev.Key)
			if cmd != keymap.None {
				logger.Debug("command", "key", ev.Key, "command", cmd.String())
			}
			switch cmd {
			case keymap.Quit:
				notify(done, logger)
				return nil
			case keymap.Toggle:
				if err := shared.Update(func(m *timer.Model) { m.Toggle() }); err != nil {
					return fmt.Errorf("input: toggle: %w", err)
				}
			case keymap.Reset:
				if err := shared.Update(func(m *timer.Model) { m.Reset(cfg.ResetMinutes) }); err != nil {
					return fmt.Errorf("input: reset: %w", err)
				}
			}
		}

		if cfg.IdleYield > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-clk.After(cfg.IdleYield):
			}
		}
	}
}

// notify delivers the completion notice without blocking. Quitting goes
// ahead even if nobody can take the notice.
func notify(done chan<- struct{}, logger *slog.Logger) {
	select {
	case done <- struct{}{}:
	default:
		logger.Warn("completion notice not delivered")
	}
}
