package service

import (
	"context"
	"time"
)

// DefaultLatency mirrors the response time of the mock backend calls.
const DefaultLatency = 800 * time.Millisecond

// Latency simulates the round trip of a backend call.
type Latency interface {
	Wait(ctx context.Context) error
}

// FixedLatency waits for a constant duration or until ctx is done.
type FixedLatency time.Duration

// NoLatency returns immediately.
const NoLatency = FixedLatency(0)

func (d FixedLatency) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
