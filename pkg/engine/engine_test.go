package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	clocktesting "k8s.io/utils/clock/testing"

	"gitlab.com/tinyland/lab/tomato/pkg/keymap"
	"gitlab.com/tinyland/lab/tomato/pkg/state"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// fakeSource delivers queued events. Closing events makes Poll return
// closeErr (io.EOF unless set).
type fakeSource struct {
	events   chan Event
	closeErr error
	polls    atomic.Int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan Event, 16), closeErr: io.EOF}
}

func (s *fakeSource) Poll(ctx context.Context, timeout time.Duration) (Event, bool, error) {
	s.polls.Add(1)
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case ev, ok := <-s.events:
		if !ok {
			return Event{}, false, s.closeErr
		}
		return ev, true, nil
	case <-t.C:
		return Event{}, false, nil
	case <-ctx.Done():
		return Event{}, false, ctx.Err()
	}
}

func (s *fakeSource) press(key string) {
	s.events <- Event{Key: key, Kind: Press}
}

// recordingSink keeps every snapshot it was asked to render.
type recordingSink struct {
	mu    sync.Mutex
	snaps []timer.Model
	err   error
}

func (s *recordingSink) Render(snap timer.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.snaps = append(s.snaps, snap)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}

func (s *recordingSink) last() (timer.Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snaps) == 0 {
		return timer.Model{}, false
	}
	return s.snaps[len(s.snaps)-1], true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// stepClock advances fc by step every real millisecond until stopped.
func stepClock(fc *clocktesting.FakeClock, step time.Duration) (stop func()) {
	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-quit:
				return
			case <-time.After(time.Millisecond):
				fc.Step(step)
			}
		}
	}()
	return func() {
		close(quit)
		wg.Wait()
	}
}

func remaining(t *testing.T, s *state.Shared) time.Duration {
	t.Helper()
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	return snap.Remaining()
}

func startTickLoop(t *testing.T, shared *state.Shared) (*clocktesting.FakeClock, context.CancelFunc, <-chan error) {
	t.Helper()
	fc := clocktesting.NewFakeClock(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- TickLoop(ctx, shared, fc, time.Second) }()
	waitFor(t, "ticker registration", fc.HasWaiters)
	return fc, cancel, errCh
}

func TestTickLoopScenario(t *testing.T) {
	shared := state.New(timer.New(timer.DefaultMinutes))
	fc, cancel, errCh := startTickLoop(t, shared)
	defer cancel()

	if err := shared.Update(func(m *timer.Model) { m.Toggle() }); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		fc.Step(time.Second)
		want := 25*time.Minute - time.Duration(i)*time.Second
		waitFor(t, "tick", func() bool { return remaining(t, shared) == want })
	}

	if err := shared.Update(func(m *timer.Model) { m.Toggle() }); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		fc.Step(time.Second)
	}
	time.Sleep(20 * time.Millisecond)
	if got, want := remaining(t, shared), 25*time.Minute-3*time.Second; got != want {
		t.Fatalf("paused countdown moved to %v, want %v", got, want)
	}

	if err := shared.Update(func(m *timer.Model) { m.Reset(10) }); err != nil {
		t.Fatal(err)
	}
	snap, _ := shared.Snapshot()
	if snap.Remaining() != 600*time.Second || snap.State() != timer.Stopped {
		t.Errorf("after reset got %v/%v, want 600s/Stopped", snap.Remaining(), snap.State())
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("TickLoop() = %v, want nil", err)
	}
}

func TestTickLoopStopsOnShutdown(t *testing.T) {
	shared := state.New(timer.New(1))
	_, cancel, errCh := startTickLoop(t, shared)

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("TickLoop() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TickLoop did not exit after shutdown")
	}
}

func TestTickLoopFailsOnPoisonedState(t *testing.T) {
	shared := state.New(timer.New(1))
	fc, cancel, errCh := startTickLoop(t, shared)
	defer cancel()

	_ = shared.Update(func(*timer.Model) { panic("mid-mutation failure") })
	fc.Step(time.Second)

	select {
	case err := <-errCh:
		if !errors.Is(err, state.ErrPoisoned) {
			t.Errorf("TickLoop() = %v, want ErrPoisoned", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TickLoop kept running on poisoned state")
	}
}

func runInput(t *testing.T, shared *state.Shared, src Source, done chan struct{}) error {
	t.Helper()
	cfg := InputConfig{PollTimeout: 2 * time.Millisecond, ResetMinutes: timer.ResetMinutes}
	errCh := make(chan error, 1)
	go func() {
		errCh <- InputLoop(context.Background(), shared, src, keymap.Default(),
			clocktesting.NewFakeClock(time.Now()), done, cfg, discardLogger())
	}()
	select {
	case err := <-errCh:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("InputLoop did not exit")
		return nil
	}
}

func TestInputLoopAppliesCommands(t *testing.T) {
	shared := state.New(timer.New(10))
	src := newFakeSource()
	src.press("s")
	src.press("x")
	src.events <- Event{Key: "s", Kind: Release}
	src.events <- Event{Key: "s", Kind: Repeat}
	src.press("q")

	done := make(chan struct{}, 1)
	if err := runInput(t, shared, src, done); err != nil {
		t.Fatalf("InputLoop() = %v, want nil", err)
	}

	snap, _ := shared.Snapshot()
	if snap.State() != timer.Running {
		t.Errorf("State() = %v, want Running (release/repeat ignored)", snap.State())
	}

	if _, ok := <-done; !ok {
		t.Fatal("no completion notice before close")
	}
	if _, ok := <-done; ok {
		t.Fatal("more than one completion notice")
	}
}

func TestInputLoopResetUsesFixedLength(t *testing.T) {
	shared := state.New(timer.New(50))
	src := newFakeSource()
	src.press("s")
	src.press("r")
	src.press("q")

	if err := runInput(t, shared, src, make(chan struct{}, 1)); err != nil {
		t.Fatal(err)
	}
	snap, _ := shared.Snapshot()
	if snap.Remaining() != timer.ResetMinutes*time.Minute || snap.State() != timer.Stopped {
		t.Errorf("got %v/%v, want %v/Stopped", snap.Remaining(), snap.State(), timer.ResetMinutes*time.Minute)
	}
}

func TestInputLoopEndOfInputQuits(t *testing.T) {
	src := newFakeSource()
	close(src.events)

	done := make(chan struct{}, 1)
	if err := runInput(t, state.New(timer.New(1)), src, done); err != nil {
		t.Fatalf("InputLoop() = %v, want nil", err)
	}
	if _, ok := <-done; !ok {
		t.Error("end of input did not send a completion notice")
	}
}

func TestInputLoopUndeliveredNoticeStillQuits(t *testing.T) {
	src := newFakeSource()
	src.press("q")

	done := make(chan struct{}) // nobody reads
	if err := runInput(t, state.New(timer.New(1)), src, done); err != nil {
		t.Fatalf("InputLoop() = %v, want nil", err)
	}
	if _, ok := <-done; ok {
		t.Error("expected closed channel")
	}
}

func TestInputLoopErrors(t *testing.T) {
	errBroken := errors.New("tty gone")

	t.Run("source", func(t *testing.T) {
		src := newFakeSource()
		src.closeErr = errBroken
		close(src.events)
		done := make(chan struct{}, 1)
		err := runInput(t, state.New(timer.New(1)), src, done)
		if !errors.Is(err, errBroken) {
			t.Errorf("InputLoop() = %v, want %v", err, errBroken)
		}
		if _, ok := <-done; ok {
			t.Error("source failure sent a completion notice")
		}
	})

	t.Run("poisoned", func(t *testing.T) {
		shared := state.New(timer.New(1))
		_ = shared.Update(func(*timer.Model) { panic("boom") })
		src := newFakeSource()
		src.press("s")
		err := runInput(t, shared, src, make(chan struct{}, 1))
		if !errors.Is(err, state.ErrPoisoned) {
			t.Errorf("InputLoop() = %v, want ErrPoisoned", err)
		}
	})
}

func TestInputLoopIdleYieldWaitsOnClock(t *testing.T) {
	shared := state.New(timer.New(1))
	src := newFakeSource()
	fc := clocktesting.NewFakeClock(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := InputConfig{
		PollTimeout:  time.Millisecond,
		IdleYield:    time.Second,
		ResetMinutes: timer.ResetMinutes,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- InputLoop(ctx, shared, src, keymap.Default(), fc,
			make(chan struct{}, 1), cfg, discardLogger())
	}()

	waitFor(t, "first pause", func() bool { return src.polls.Load() == 1 && fc.HasWaiters() })
	time.Sleep(20 * time.Millisecond)
	if got := src.polls.Load(); got != 1 {
		t.Fatalf("polled %d times before the pause elapsed, want 1", got)
	}

	fc.Step(time.Second)
	waitFor(t, "second pause", func() bool { return src.polls.Load() == 2 && fc.HasWaiters() })

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("InputLoop() = %v, want nil on cancel during pause", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("InputLoop did not exit when cancelled during the pause")
	}
	if got := src.polls.Load(); got != 2 {
		t.Errorf("polls = %d after cancel, want 2", got)
	}
}

type engineHarness struct {
	shared *state.Shared
	src    *fakeSource
	sink   *recordingSink
	engine *Engine
}

func newHarness(minutes int) *engineHarness {
	h := &engineHarness{
		shared: state.New(timer.New(minutes)),
		src:    newFakeSource(),
		sink:   &recordingSink{},
	}
	return h
}

func (h *engineHarness) start(ctx context.Context, fc *clocktesting.FakeClock) <-chan error {
	h.engine = New(Config{
		Shared: h.shared,
		Source: h.src,
		Sink:   h.sink,
		Keys:   keymap.Default(),
		Clock:  fc,
		Logger: discardLogger(),
		Options: Options{
			TickInterval:   time.Second,
			RenderInterval: 100 * time.Millisecond,
			PollTimeout:    2 * time.Millisecond,
		},
	})
	errCh := make(chan error, 1)
	go func() { errCh <- h.engine.Run(ctx) }()
	return errCh
}

func awaitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRunQuitStopsAllLoops(t *testing.T) {
	h := newHarness(25)
	fc := clocktesting.NewFakeClock(time.Now())
	stop := stepClock(fc, 10*time.Millisecond)
	defer stop()

	errCh := h.start(context.Background(), fc)

	h.src.press("s")
	waitFor(t, "countdown to render", func() bool {
		snap, ok := h.sink.last()
		return ok && snap.State() == timer.Running && snap.Remaining() < 25*time.Minute
	})

	h.src.press("q")
	if err := awaitRun(t, errCh); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	renders := h.sink.count()
	polls := h.src.polls.Load()
	left := remaining(t, h.shared)

	// The clock keeps moving; nothing may react to it any more.
	time.Sleep(50 * time.Millisecond)

	if got := h.sink.count(); got != renders {
		t.Errorf("%d repaints after Run returned", got-renders)
	}
	if got := h.src.polls.Load(); got != polls {
		t.Errorf("%d input polls after Run returned", got-polls)
	}
	if got := remaining(t, h.shared); got != left {
		t.Errorf("countdown moved from %v to %v after Run returned", left, got)
	}
}

func TestRunRenderFailureIsFatal(t *testing.T) {
	errSink := errors.New("write /dev/tty: broken pipe")
	h := newHarness(1)
	h.sink.err = errSink
	fc := clocktesting.NewFakeClock(time.Now())
	stop := stepClock(fc, 10*time.Millisecond)
	defer stop()

	err := awaitRun(t, h.start(context.Background(), fc))
	if !errors.Is(err, errSink) {
		t.Fatalf("Run() = %v, want %v", err, errSink)
	}

	polls := h.src.polls.Load()
	time.Sleep(20 * time.Millisecond)
	if got := h.src.polls.Load(); got != polls {
		t.Errorf("input loop still polling after fatal render error")
	}
}

func TestRunPoisonedStateIsFatal(t *testing.T) {
	h := newHarness(1)
	_ = h.shared.Update(func(*timer.Model) { panic("boom") })
	fc := clocktesting.NewFakeClock(time.Now())
	stop := stepClock(fc, 10*time.Millisecond)
	defer stop()

	err := awaitRun(t, h.start(context.Background(), fc))
	if !errors.Is(err, state.ErrPoisoned) {
		t.Fatalf("Run() = %v, want ErrPoisoned", err)
	}
}

func TestRunInputFailureEndsRun(t *testing.T) {
	errBroken := errors.New("read /dev/tty: input/output error")
	h := newHarness(1)
	h.src.closeErr = errBroken
	close(h.src.events)
	fc := clocktesting.NewFakeClock(time.Now())
	stop := stepClock(fc, 10*time.Millisecond)
	defer stop()

	err := awaitRun(t, h.start(context.Background(), fc))
	if !errors.Is(err, errBroken) {
		t.Fatalf("Run() = %v, want %v", err, errBroken)
	}
}

func TestRunContextCancelActsAsQuit(t *testing.T) {
	h := newHarness(1)
	fc := clocktesting.NewFakeClock(time.Now())
	stop := stepClock(fc, 10*time.Millisecond)
	defer stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := h.start(ctx, fc)
	waitFor(t, "first render", func() bool { return h.sink.count() > 0 })

	cancel()
	if err := awaitRun(t, errCh); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestNewFillsDefaults(t *testing.T) {
	e := New(Config{Options: Options{IdleYield: -1}})
	d := DefaultOptions()
	if e.opts.TickInterval != d.TickInterval || e.opts.RenderInterval != d.RenderInterval ||
		e.opts.PollTimeout != d.PollTimeout || e.opts.ResetMinutes != d.ResetMinutes {
		t.Errorf("opts = %+v, want defaults %+v", e.opts, d)
	}
	if e.opts.IdleYield != 0 {
		t.Errorf("IdleYield = %v, want 0", e.opts.IdleYield)
	}
	if e.clock == nil || e.logger == nil {
		t.Error("clock or logger not defaulted")
	}
}
