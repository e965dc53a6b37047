// Package ratelimit throttles login attempts per client key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is a sliding-window limiter for a single process.
type Memory struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	maxReqs int
	window  time.Duration
	now     func() time.Time
	swept   time.Time
}

func NewMemory(maxRequests int, window time.Duration) *Memory {
	return &Memory{
		buckets: make(map[string][]time.Time),
		maxReqs: maxRequests,
		window:  window,
		now:     time.Now,
	}
}

func (l *Memory) Allow(_ context.Context, key string) (bool, error) {
	if key == "" || l.maxReqs <= 0 {
		return true, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.swept) >= l.window {
		l.sweep(cutoff)
		l.swept = now
	}
	kept := l.buckets[key][:0]
	for _, t := range l.buckets[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.maxReqs {
		l.buckets[key] = kept
		return false, nil
	}
	l.buckets[key] = append(kept, now)
	return true, nil
}

// sweep drops keys with no hit after cutoff. Hits are appended in order, so
// the last one is the newest.
func (l *Memory) sweep(cutoff time.Time) {
	for k, hits := range l.buckets {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.buckets, k)
		}
	}
}
