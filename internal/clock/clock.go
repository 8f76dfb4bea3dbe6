package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time to the service layer. The lock engine never
// reads it directly, every engine call receives now explicitly.
type Clock interface {
	Now() time.Time
}

type standardClock struct{}

func NewStandardClock() Clock {
	return standardClock{}
}

func (standardClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock is a manually driven clock for tests
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
