// Package ratelimit implements a fixed-window request counter keyed by client
// identity. It gates requests before any handler runs.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result reports the outcome of a single Allow call, with enough detail for
// X-RateLimit response headers.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// bucket is the per-key window state. The embedded mutex makes the
// read-check-mutate sequence atomic for concurrent callers sharing a key
// without serializing unrelated keys behind a global lock.
type bucket struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// Limiter counts requests per key in fixed wall-clock windows. Buckets are
// created lazily and evicted by Run once idle for two windows.
type Limiter struct {
	window time.Duration
	max    int

	mu      sync.RWMutex
	buckets map[string]*bucket

	now func() time.Time
}

func New(window time.Duration, max int) *Limiter {
	return &Limiter{
		window:  window,
		max:     max,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it fits in the
// current window. The first call of a window always succeeds; once the count
// reaches the limit, further calls in the same window are denied without
// mutating the bucket.
func (l *Limiter) Allow(key string) Result {
	b := l.lookup(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	if b.windowStart.IsZero() || now.Sub(b.windowStart) >= l.window {
		b.windowStart = now
		b.count = 1
		return Result{Allowed: true, Remaining: l.max - 1, ResetAt: now.Add(l.window), Limit: l.max}
	}

	resetAt := b.windowStart.Add(l.window)
	if b.count < l.max {
		b.count++
		return Result{Allowed: true, Remaining: l.max - b.count, ResetAt: resetAt, Limit: l.max}
	}

	return Result{Allowed: false, Remaining: 0, ResetAt: resetAt, Limit: l.max}
}

func (l *Limiter) lookup(key string) *bucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b = l.buckets[key]; b == nil {
		b = &bucket{}
		l.buckets[key] = b
	}
	return b
}

// Run sweeps buckets that have been idle for at least two windows until ctx
// is cancelled. Without it the bucket map grows with every distinct client
// address seen over the process lifetime.
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	cutoff := l.now().Add(-2 * l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.mu.Lock()
		stale := b.windowStart.Before(cutoff)
		b.mu.Unlock()
		if stale {
			delete(l.buckets, key)
		}
	}
}

// Size returns the number of live buckets.
func (l *Limiter) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}
