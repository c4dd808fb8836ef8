package domain

import (
	"context"
	"sync"
	"time"
)

// Countdown tracks the time left on an active hold. Remaining time is always
// recomputed from ExpiresAt rather than decremented, so missed ticks do not
// drift. OnExpired fires once, on the first tick at or past the deadline.
type Countdown struct {
	ExpiresAt time.Time
	OnExpired func()
	OnTick    func(remaining time.Duration, urgency Urgency)

	mu      sync.Mutex
	expired bool
}

func NewCountdown(expiresAt time.Time, onExpired func()) *Countdown {
	return &Countdown{ExpiresAt: expiresAt, OnExpired: onExpired}
}

// Tick recomputes the remaining time for now and reports whether the hold
// has expired.
func (c *Countdown) Tick(now time.Time) (time.Duration, bool) {
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	c.mu.Lock()
	fire := remaining == 0 && !c.expired
	if remaining == 0 {
		c.expired = true
	}
	done := c.expired
	c.mu.Unlock()

	if c.OnTick != nil {
		c.OnTick(remaining, UrgencyFor(remaining))
	}
	if fire && c.OnExpired != nil {
		c.OnExpired()
	}
	return remaining, done
}

func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Run ticks immediately and then every interval until the hold expires or ctx
// is cancelled.
func (c *Countdown) Run(ctx context.Context, interval time.Duration, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	if _, done := c.Tick(now()); done {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, done := c.Tick(now()); done {
				return
			}
		}
	}
}
