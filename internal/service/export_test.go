package service

import "time"

// Test hooks for unexported clocks and sweeps.

func (l *AttemptLimiter) SetClock(now func() time.Time) { l.now = now }

func (l *AttemptLimiter) Sweep() { l.sweep() }

func (l *AttemptLimiter) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (r *SessionRegistry) SetClock(now func() time.Time) { r.now = now }

func (r *SessionRegistry) EvictIdle() int { return r.evictIdle() }

func (t *ClientTokens) SetClock(now func() time.Time) { t.now = now }

var (
	EncodeRecord = encodeRecord
	DecodeRecord = decodeRecord
)
