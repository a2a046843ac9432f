package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a keyed token bucket used to pace outbound calls against the
// indicator source.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	// refill
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens -= 1
		return true
	}
	return false
}

// Wait blocks until a token is available for key or the context ends. This
// paces requests; it never re-issues one.
func (l *Limiter) Wait(ctx context.Context, key string, capacity, refillPerSec float64) error {
	for {
		if l.Allow(key, capacity, refillPerSec) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}
