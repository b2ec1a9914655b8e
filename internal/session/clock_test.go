package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestClockCountsDownAndExpiresOnce(t *testing.T) {
	var expirations int32
	done := make(chan struct{})
	c := StartClock(3, time.Millisecond, nil, func() {
		if atomic.AddInt32(&expirations, 1) == 1 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("clock did not expire")
	}

	if got := c.Remaining(); got != 0 {
		t.Fatalf("expected 0 remaining, got %d", got)
	}

	// No second expiry should arrive after the clock stopped itself.
	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&expirations); n != 1 {
		t.Fatalf("expected exactly one expiry, got %d", n)
	}
}

func TestClockStopIsIdempotentAndSilencesTicks(t *testing.T) {
	var ticks int32
	c := StartClock(1000, time.Millisecond, func(int) {
		atomic.AddInt32(&ticks, 1)
	}, func() {
		t.Errorf("stopped clock must not expire")
	})

	time.Sleep(10 * time.Millisecond)
	c.Stop()
	c.Stop()

	// Let any tick already in flight finish before sampling.
	time.Sleep(5 * time.Millisecond)
	settled := atomic.LoadInt32(&ticks)
	time.Sleep(20 * time.Millisecond)
	if after := atomic.LoadInt32(&ticks); after != settled {
		t.Fatalf("observed ticks after stop: %d -> %d", settled, after)
	}
}

func TestClockNeverRewinds(t *testing.T) {
	c := StartClock(5, time.Millisecond, nil, nil)
	defer c.Stop()

	prev := c.Remaining()
	for i := 0; i < 10; i++ {
		time.Sleep(time.Millisecond)
		cur := c.Remaining()
		if cur > prev {
			t.Fatalf("remaining went up: %d -> %d", prev, cur)
		}
		prev = cur
	}
}
