package session

import (
	"sync"
	"time"
)

// Clock is a one-shot countdown owned by a single attempt. It ticks once per
// interval, never rewinds, and fires its expiry hook exactly once when the
// count reaches zero, after which it stops itself. Stop is idempotent and may
// race with an in-flight expiry; owners must keep their expiry action
// idempotent (the controller's submit latch covers this).
type Clock struct {
	interval time.Duration
	onTick   func(remaining int)
	onExpire func()

	mu        sync.Mutex
	remaining int

	done     chan struct{}
	stopOnce sync.Once
}

// StartClock begins a countdown of the given whole seconds. Hooks may be nil.
// Tests pass a short interval; production callers use time.Second.
func StartClock(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) *Clock {
	c := &Clock{
		interval:  interval,
		onTick:    onTick,
		onExpire:  onExpire,
		remaining: seconds,
		done:      make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Clock) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.remaining > 0 {
				c.remaining--
			}
			left := c.remaining
			c.mu.Unlock()

			if left > 0 {
				if c.onTick != nil {
					c.onTick(left)
				}
				continue
			}
			c.Stop()
			if c.onExpire != nil {
				c.onExpire()
			}
			return
		}
	}
}

// Remaining reports whole seconds left on the countdown.
func (c *Clock) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Stop cancels further ticks. Safe to call any number of times, including
// after the clock expired on its own.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}
