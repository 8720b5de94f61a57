package engine

import "sync/atomic"

// Clock is a monotonic logical clock that stamps each applied update.
//
// Every snapshot carries the seq of the update that produced it, so a
// reader can tell whether two reads saw the same tree state. Rejected
// updates do not advance the clock.
//
// Clock is safe for concurrent use; in practice only the apply path calls
// Next, under the tree's write lock.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number, for
// resuming a recorded session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
