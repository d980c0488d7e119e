package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AttemptLimiter is a per-key token bucket for form submissions such as
// login and registration. It is safe for concurrent use.
type AttemptLimiter struct {
	mu      sync.Mutex
	buckets map[string]*attemptBucket
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

type attemptBucket struct {
	limiter *rate.Limiter
	last    time.Time
}

// NewAttemptLimiter allows burst attempts per key, refilling at perSecond.
func NewAttemptLimiter(perSecond float64, burst int) *AttemptLimiter {
	return &AttemptLimiter{
		buckets: make(map[string]*attemptBucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// Allow reports whether key may make another attempt, consuming one token.
func (l *AttemptLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &attemptBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.last = now
	return b.limiter.AllowN(now, 1)
}

// Run removes buckets unused for ten minutes until ctx is cancelled.
func (l *AttemptLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *AttemptLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	for key, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
