package service_test

import (
	"testing"
	"time"

	"github.com/msomdec/discount-pro/internal/service"
)

func TestAttemptLimiter_AllowsUpToBurst(t *testing.T) {
	l := service.NewAttemptLimiter(1, 3)

	// Should allow 3 attempts immediately (full bucket).
	for i := 0; i < 3; i++ {
		if !l.Allow("test-key") {
			t.Fatalf("attempt %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	if l.Allow("test-key") {
		t.Fatal("4th attempt should be denied (bucket empty)")
	}
}

func TestAttemptLimiter_DifferentKeysAreIndependent(t *testing.T) {
	l := service.NewAttemptLimiter(1, 1)

	if !l.Allow("ip-a") {
		t.Fatal("ip-a first attempt should be allowed")
	}
	if l.Allow("ip-a") {
		t.Fatal("ip-a second attempt should be denied")
	}

	// ip-b has its own bucket.
	if !l.Allow("ip-b") {
		t.Fatal("ip-b first attempt should be allowed (independent bucket)")
	}
}

func TestAttemptLimiter_Refills(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := service.NewAttemptLimiter(1, 1)
	l.SetClock(func() time.Time { return now })

	if !l.Allow("k") {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second attempt should be denied before refill")
	}

	now = now.Add(2 * time.Second)
	if !l.Allow("k") {
		t.Fatal("attempt after refill should be allowed")
	}
}

func TestAttemptLimiter_SweepRemovesIdleKeys(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := service.NewAttemptLimiter(1, 5)
	l.SetClock(func() time.Time { return now })

	l.Allow("old")
	now = now.Add(11 * time.Minute)
	l.Allow("fresh")

	l.Sweep()

	if got := l.Keys(); got != 1 {
		t.Fatalf("expected 1 key after sweep, got %d", got)
	}
}
