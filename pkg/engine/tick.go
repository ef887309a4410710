package engine

import (
	"context"
	"fmt"
	"time"

	"k8s.io/utils/clock"

	"gitlab.com/tinyland/lab/tomato/pkg/state"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// TickLoop advances the shared model once per interval while it is
// running. It returns nil once ctx is done, and returns the error from
// the first failed lock acquisition without retrying.
func TickLoop(ctx context.Context, shared *state.Shared, clk clock.WithTicker, interval time.Duration) error {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			err := shared.Update(func(m *timer.Model) {
				if m.State() == timer.Running {
					m.Tick()
				}
			})
			if err != nil {
				return fmt.Errorf("tick: %w", err)
			}
		}
	}
}
