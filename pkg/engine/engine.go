package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"gitlab.com/tinyland/lab/tomato/pkg/keymap"
	"gitlab.com/tinyland/lab/tomato/pkg/state"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// Options holds the loop cadences.
type Options struct {
	TickInterval   time.Duration
	RenderInterval time.Duration
	PollTimeout    time.Duration
	IdleYield      time.Duration
	ResetMinutes   int
}

// DefaultOptions returns one tick per second, ten repaints per second,
// 50ms input polls with a 10ms idle yield, and the fixed reset length.
func DefaultOptions() Options {
	return Options{
		TickInterval:   time.Second,
		RenderInterval: 100 * time.Millisecond,
		PollTimeout:    50 * time.Millisecond,
		IdleYield:      10 * time.Millisecond,
		ResetMinutes:   timer.ResetMinutes,
	}
}

// Config wires an Engine to its collaborators. Clock and Logger are
// optional.
type Config struct {
	Shared  *state.Shared
	Source  Source
	Sink    Sink
	Keys    keymap.Map
	Clock   clock.WithTicker
	Logger  *slog.Logger
	Options Options
}

// Engine owns one run of the three loops.
type Engine struct {
	shared *state.Shared
	source Source
	sink   Sink
	keys   keymap.Map
	clock  clock.WithTicker
	logger *slog.Logger
	opts   Options
}

// New returns an Engine for cfg. Zero intervals and a zero reset length
// fall back to DefaultOptions; a zero IdleYield disables the yield.
func New(cfg Config) *Engine {
	e := &Engine{
		shared: cfg.Shared,
		source: cfg.Source,
		sink:   cfg.Sink,
		keys:   cfg.Keys,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		opts:   withDefaults(cfg.Options),
	}
	if e.clock == nil {
		e.clock = clock.RealClock{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

func withDefaults(o Options) Options {
	d := DefaultOptions()
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.RenderInterval <= 0 {
		o.RenderInterval = d.RenderInterval
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = d.PollTimeout
	}
	if o.IdleYield < 0 {
		o.IdleYield = 0
	}
	if o.ResetMinutes <= 0 {
		o.ResetMinutes = d.ResetMinutes
	}
	return o
}

// Run starts the tick and input loops, repaints until the input loop
// reports quit (or ctx is cancelled), then stops the tick loop and waits
// for both loops before returning. No repaint happens after Run decides
// to stop.
//
// A render or snapshot failure is returned as is. Otherwise the first
// error a background loop stopped with is returned after it was logged.
func (e *Engine) Run(ctx context.Context) error {
	// runCtx stops the input loop on fatal paths. tickCtx is the shutdown
	// broadcast for the tick loop.
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	tickCtx, shutdown := context.WithCancel(runCtx)
	defer shutdown()

	done := make(chan struct{}, 1)

	var g errgroup.Group
	g.Go(func() error {
		err := TickLoop(tickCtx, e.shared, e.clock, e.opts.TickInterval)
		if err != nil {
			e.logger.Error("tick loop stopped", "error", err)
		}
		return err
	})
	g.Go(func() error {
		err := InputLoop(runCtx, e.shared, e.source, e.keys, e.clock, done, InputConfig{
			PollTimeout:  e.opts.PollTimeout,
			IdleYield:    e.opts.IdleYield,
			ResetMinutes: e.opts.ResetMinutes,
		}, e.logger)
		if err != nil {
			e.logger.Error("input loop stopped", "error", err)
		}
		return err
	})

	renderErr := e.renderLoop(ctx, done)
	shutdown()
	if renderErr != nil {
		e.logger.Error("render loop stopped", "error", renderErr)
		cancelRun()
	}

	loopErr := g.Wait()
	e.logger.Debug("loops stopped")

	if renderErr != nil {
		return renderErr
	}
	return loopErr
}

// renderLoop repaints every RenderInterval and returns nil once the input
// loop has sent its notice or exited.
func (e *Engine) renderLoop(ctx context.Context, done <-chan struct{}) error {
	ticker := e.clock.NewTicker(e.opts.RenderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("run cancelled")
			return nil
		case <-ticker.C():
		}

		snap, err := e.shared.Snapshot()
		if err != nil {
			return fmt.Errorf("render: snapshot: %w", err)
		}
		if err := e.sink.Render(snap); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		select {
		case _, ok := <-done:
			if ok {
				e.logger.Info("quit requested")
			} else {
				e.logger.Debug("input loop exited")
			}
			return nil
		default:
		}
	}
}
