// Package ratelimit implements a token bucket rate limiter used to slow
// down credential guessing against the login and secret verification
// endpoints.
package ratelimit

import (
	"sync"
	"time"
)

// Rate describes how fast a bucket refills and how large a burst it allows.
type Rate struct {
	// RequestsPerSecond is the token refill rate
	RequestsPerSecond float64

	// Burst is the bucket capacity
	Burst int
}

// Limiter is a token bucket for a single client. Tokens refill continuously
// at the configured rate and each allowed request consumes one token.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	lastAccess time.Time
}

// NewLimiter creates a limiter with a full bucket.
func NewLimiter(rate Rate) *Limiter {
	now := time.Now()
	return &Limiter{
		tokens:     float64(rate.Burst),
		capacity:   float64(rate.Burst),
		rate:       rate.RequestsPerSecond,
		lastRefill: now,
		lastAccess: now,
	}
}

// Allow reports whether a request may proceed, consuming a token when it may.
func (l *Limiter) Allow() bool {
	return l.AllowAt(time.Now())
}

// AllowAt is Allow with an explicit clock, for deterministic tests.
func (l *Limiter) AllowAt(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed > 0 {
		l.tokens += elapsed * l.rate
		if l.tokens > l.capacity {
			l.tokens = l.capacity
		}
		l.lastRefill = now
	}
	l.lastAccess = now

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// idleSince reports whether the limiter has gone unused since the cutoff.
func (l *Limiter) idleSince(cutoff time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastAccess.Before(cutoff)
}
