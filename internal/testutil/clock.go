package testutil

import (
	"sync"
	"time"
)

// DeterministicClock provides a thread-safe stepping wall clock for tests.
//
// Each call to Now returns the start time advanced by step times the number
// of previous calls, so insertion timestamps and run durations are stable
// across test runs.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewDeterministicClock creates a clock starting at start that advances by
// step on every call to Now. A zero step freezes the clock.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Now returns the current time and advances the clock.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock to its start time.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
