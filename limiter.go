package blogkit

import (
	"sync"
	"time"
)

// RateLimiter is a per-key sliding-window rate limiter. Keys are client IPs.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	stop   chan struct{}
	once   sync.Once
}

// NewRateLimiter creates a RateLimiter that allows max requests per window.
// Call Close to stop its cleanup goroutine.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for key, hits := range l.hits {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(l.hits, key)
			} else {
				l.hits[key] = kept
			}
		}
		l.mu.Unlock()
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow checks if key has not exceeded the limit and records the request.
func (l *RateLimiter) Allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.hits[key], now.Add(-l.window))
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// Close stops the cleanup goroutine.
func (l *RateLimiter) Close() {
	l.once.Do(func() { close(l.stop) })
}
