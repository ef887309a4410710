// Package state guards the single shared timer model. Every read and
// mutation goes through Shared, which serializes access with a mutex.
//
// A mutation that panics while holding the lock leaves the model in an
// unknown state. Shared records that as poisoned: the lock is released,
// and every later access fails with ErrPoisoned instead of proceeding.
package state

import (
	"errors"
	"fmt"
	"sync"

	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// ErrPoisoned is returned by every access after a mutation failed while
// holding the lock.
var ErrPoisoned = errors.New("state: shared timer poisoned")

// Shared is the process-wide handle to the timer model. It is safe for
// concurrent use.
type Shared struct {
	mu       sync.Mutex
	model    timer.Model
	poisoned bool
}

// New wraps m for shared use.
func New(m timer.Model) *Shared {
	return &Shared{model: m}
}

// Update runs fn with exclusive access to the model. fn must not block.
func (s *Shared) Update(fn func(*timer.Model)) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return ErrPoisoned
	}

	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			err = fmt.Errorf("%w: update panicked: %v", ErrPoisoned, r)
		}
	}()
	fn(&s.model)
	return nil
}

// Snapshot returns a copy of the model taken under the lock.
func (s *Shared) Snapshot() (timer.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return timer.Model{}, ErrPoisoned
	}
	return s.model, nil
}

// Poisoned reports whether a prior update failed mid-mutation.
func (s *Shared) Poisoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poisoned
}
