// Package matchclock is the free-running elapsed-time counter of a
// match. It is purely advisory: it never touches the entity store, it
// only supplies a default "current minute" read at note-creation time.
package matchclock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// TickFunc is called once per second with the elapsed seconds.
type TickFunc func(seconds int64)

// Clock counts elapsed match seconds on a background ticker.
type Clock struct {
	seconds atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	onTick TickFunc
}

// New creates a stopped clock. onTick may be nil.
func New(onTick TickFunc) *Clock {
	return &Clock{onTick: onTick}
}

// Start begins (or resumes) counting. Starting a running clock is a
// no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx)
}

// Pause stops counting without resetting the elapsed time.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Reset pauses the clock and zeroes the counter.
func (c *Clock) Reset() {
	c.Pause()
	c.seconds.Store(0)
}

// Running reports whether the clock is counting.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Elapsed returns the elapsed seconds.
func (c *Clock) Elapsed() int64 {
	return c.seconds.Load()
}

// Minute returns the current match minute, the default minute for a new
// note when the caller omits one.
func (c *Clock) Minute() int {
	return int(c.seconds.Load() / 60)
}

func (c *Clock) run(ctx context.Context) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s := c.seconds.Add(1)
			if c.onTick != nil {
				c.onTick(s)
			}
		}
	}
}
