// Package ratelimit implements the per-user submission cooldown. The clock
// is anchored at the last successful submission: rejected attempts never
// extend the window.
package ratelimit

import (
	"sync"
	"time"
)

// Cooldown tracks the last successful submission per user.
type Cooldown struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last map[uint]time.Time
}

// NewCooldown creates a tracker with the given window.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		window: window,
		now:    time.Now,
		last:   make(map[uint]time.Time),
	}
}

// Allow reports whether the user is outside the cooldown window, and if not,
// how long until the window expires.
func (c *Cooldown) Allow(userID uint) (bool, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.last[userID]
	if !ok {
		return true, 0
	}
	elapsed := c.now().Sub(last)
	if elapsed >= c.window {
		return true, 0
	}
	return false, c.window - elapsed
}

// MarkSuccess records a successful submission, starting the cooldown clock.
func (c *Cooldown) MarkSuccess(userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[userID] = c.now()
}
