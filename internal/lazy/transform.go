// Package lazy provides an at-most-once transform from a seed value to a
// constructed instance.
package lazy

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the construction state of a Transform.
type State uint8

const (
	Uninitialized State = iota
	Constructing
	Constructed
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Constructing:
		return "constructing"
	case Constructed:
		return "constructed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Transform holds a seed until the first GetOrCreate turns it into a T.
//
// Exactly one initializer runs even when several goroutines race to be
// first; the losers block until it returns and then observe its result.
// Once constructed, Get and GetOrCreate are lock-free.
//
// A failed initializer is sticky: every later GetOrCreate returns the same
// error without running again. A panicking initializer leaves the seed in
// place so a later call can retry.
type Transform[S, T any] struct {
	mu    sync.Mutex
	state State
	seed  S
	err   error
	value atomic.Pointer[T]
}

// New returns a Transform holding seed.
func New[S, T any](seed S) *Transform[S, T] {
	return &Transform[S, T]{seed: seed}
}

// Get returns the instance if it has been constructed. It never runs the
// initializer.
func (l *Transform[S, T]) Get() (T, bool) {
	if p := l.value.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Constructed reports whether the instance exists.
func (l *Transform[S, T]) Constructed() bool {
	return l.value.Load() != nil
}

// State returns the current construction state.
func (l *Transform[S, T]) State() State {
	if l.Constructed() {
		return Constructed
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// GetOrCreate returns the instance, constructing it from the seed with f if
// this is the first call. f must not call back into l.
func (l *Transform[S, T]) GetOrCreate(f func(S) (T, error)) (T, error) {
	if p := l.value.Load(); p != nil {
		return *p, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if p := l.value.Load(); p != nil {
		return *p, nil
	}
	var zero T
	if l.state == Failed {
		return zero, l.err
	}

	l.state = Constructing
	defer func() {
		if l.state == Constructing {
			l.state = Uninitialized
		}
	}()

	v, err := f(l.seed)
	var noSeed S
	if err != nil {
		l.state = Failed
		l.err = err
		l.seed = noSeed
		return zero, err
	}
	l.value.Store(&v)
	l.state = Constructed
	l.seed = noSeed
	return v, nil
}
