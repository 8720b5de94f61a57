package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/axtree/internal/metrics"
	"github.com/roach88/axtree/internal/schema"
)

// Tree is a consistent accessibility tree.
//
// Thread-safety model:
//   - Apply and UpdateAndProcessChanges: serialized by an internal lock
//   - Read: safe from any goroutine, never blocks
type Tree struct {
	mu      sync.Mutex
	state   atomic.Pointer[snapshot]
	clock   *Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = l
	}
}

// WithMetrics records applied updates, violations, and changes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tree) {
		t.metrics = m
	}
}

// WithClock sets the clock that stamps snapshots.
func WithClock(c *Clock) Option {
	return func(t *Tree) {
		t.clock = c
	}
}

// NewEmpty creates an uninitialized tree. The first update applied to it
// must carry a root id and tree metadata.
func NewEmpty(opts ...Option) *Tree {
	t := &Tree{
		clock:  NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state.Store(emptySnapshot)
	return t
}

// New creates a tree from an initial full update. No changes are reported
// for the initial state.
func New(initial schema.TreeUpdate, opts ...Option) (*Tree, error) {
	t := NewEmpty(opts...)
	if _, err := t.Apply(initial); err != nil {
		return nil, fmt.Errorf("initial update: %w", err)
	}
	return t, nil
}

// Read returns a view of the current state.
func (t *Tree) Read() Reader {
	return Reader{s: t.state.Load()}
}

// Apply validates u against the current state and, if valid, publishes the
// resulting state and returns the changes. On error the state is unchanged
// and the error is an *InvariantError.
func (t *Tree) Apply(u schema.TreeUpdate) ([]Change, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.state.Load()
	next, changes, err := apply(prev, &u)
	if err != nil {
		code, _ := ViolationCodeOf(err)
		t.metrics.Violation(string(code))
		t.logger.Warn("tree update rejected",
			"code", code,
			"error", err,
			"seq", prev.seq,
			"nodes", len(u.Nodes))
		return nil, err
	}
	next.seq = t.clock.Next()
	t.state.Store(next)

	t.metrics.UpdateApplied(len(u.Nodes))
	for _, c := range changes {
		t.metrics.Change(c.Kind.String())
	}
	if t.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{
			"seq", next.seq,
			"nodes", len(u.Nodes),
			"changes", len(changes),
			"size", len(next.nodes),
		}
		if digest, err := schema.UpdateDigest(&u); err != nil {
			attrs = append(attrs, "digest_error", err)
		} else {
			attrs = append(attrs, "update", digest)
		}
		t.logger.Debug("tree update applied", attrs...)
	}
	return changes, nil
}

// UpdateAndProcessChanges applies u and hands each change to fn in order.
// The state is published before fn runs; an error from fn stops delivery of
// the remaining changes and is returned wrapped.
func (t *Tree) UpdateAndProcessChanges(u schema.TreeUpdate, fn func(Change) error) error {
	changes, err := t.Apply(u)
	if err != nil {
		return err
	}
	for i, c := range changes {
		if err := fn(c); err != nil {
			return fmt.Errorf("processing change %d (%s): %w", i, c, err)
		}
	}
	return nil
}
