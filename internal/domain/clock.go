package domain

import "sync"

// Clock is the monotonic simulation tick counter. Travel durations and
// arrivals are computed purely from tick values, never wall clock, so a run
// is deterministically replayable given a tick sequence.
type Clock struct {
	mu   sync.Mutex
	tick int64
}

func NewClock(start int64) *Clock {
	return &Clock{tick: start}
}

// Now returns the current tick.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

// Advance moves the clock forward one tick and returns the new value.
func (c *Clock) Advance() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	return c.tick
}
