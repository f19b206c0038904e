package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var clockStart = time.Date(2014, time.September, 11, 22, 0, 0, 0, time.UTC)

func TestDeterministicClock_StartsAtStart(t *testing.T) {
	clock := NewDeterministicClock(clockStart, time.Second)
	assert.Equal(t, clockStart, clock.Now())
	assert.Equal(t, int64(1), clock.Calls())
}

func TestDeterministicClock_Steps(t *testing.T) {
	clock := NewDeterministicClock(clockStart, 90*time.Second)

	assert.Equal(t, clockStart, clock.Now())
	assert.Equal(t, clockStart.Add(90*time.Second), clock.Now())
	assert.Equal(t, clockStart.Add(180*time.Second), clock.Now())
}

func TestDeterministicClock_ZeroStepIsFrozen(t *testing.T) {
	clock := NewDeterministicClock(clockStart, 0)

	for i := 0; i < 5; i++ {
		assert.Equal(t, clockStart, clock.Now())
	}
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClock(clockStart, time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()

	assert.Equal(t, int64(0), clock.Calls())
	assert.Equal(t, clockStart, clock.Now())
}

func TestDeterministicClock_ConcurrentAccess(t *testing.T) {
	clock := NewDeterministicClock(clockStart, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), clock.Calls())
}
