package application

import (
	"sync"
	"time"
)

// Clock supplies the time stamps of scan records.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// StepClock starts at Start and advances by Step on every call, giving
// strictly ordered stamps.
type StepClock struct {
	mu    sync.Mutex
	Start time.Time
	Step  time.Duration
	calls int64
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.Start.Add(time.Duration(c.calls) * c.Step)
}
