package ratelimit

import (
	"testing"
	"time"
)

func TestAllowCooldown(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	l := NewLimiter(5 * time.Second)
	l.now = func() time.Time { return now }

	if !l.Allow(42) {
		t.Fatal("first message should be accepted")
	}

	now = now.Add(2 * time.Second)
	if l.Allow(42) {
		t.Error("second message inside cooldown should be rejected")
	}

	// The rejection must not have refreshed the window: 5s after the first
	// accepted message the user is allowed again, regardless of the burst.
	now = now.Add(3 * time.Second)
	if !l.Allow(42) {
		t.Error("message after cooldown should be accepted")
	}
}

func TestAllowIndependentUsers(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	l := NewLimiter(5 * time.Second)
	l.now = func() time.Time { return now }

	if !l.Allow(1) {
		t.Fatal("first message from user 1 should be accepted")
	}
	if !l.Allow(2) {
		t.Error("first message from user 2 should be accepted despite user 1's cooldown")
	}
}

func TestSweepEvictsStaleEntries(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	l := NewLimiter(5 * time.Second)
	l.now = func() time.Time { return now }

	l.Allow(1)
	now = now.Add(30 * time.Second)
	l.Allow(2)

	// TTL is 10x cooldown = 50s. Entry 1 is 50s old after another 20s.
	now = now.Add(20 * time.Second)
	removed := l.Sweep()
	if removed != 1 {
		t.Errorf("Sweep removed %d entries, want 1", removed)
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d after sweep, want 1", l.Len())
	}

	// The evicted user starts fresh.
	if !l.Allow(1) {
		t.Error("message from evicted user should be accepted")
	}
}
