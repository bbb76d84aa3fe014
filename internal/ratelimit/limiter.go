// Package ratelimit implements the per-user cooldown gate for inbound messages.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks the last accepted message time per user and rejects messages
// arriving within the cooldown window. Entries idle for longer than the TTL
// are removed by Sweep, which the scheduler runs periodically so the map stays
// bounded under traffic from many distinct users.
type Limiter struct {
	mu           sync.Mutex
	cooldown     time.Duration
	ttl          time.Duration
	lastAccepted map[int64]time.Time
	now          func() time.Time
}

// NewLimiter creates a Limiter with the given cooldown. Entries are considered
// stale after ten cooldown periods of inactivity.
func NewLimiter(cooldown time.Duration) *Limiter {
	return &Limiter{
		cooldown:     cooldown,
		ttl:          10 * cooldown,
		lastAccepted: make(map[int64]time.Time),
		now:          time.Now,
	}
}

// Allow reports whether a message from userID may enter the pipeline.
// A rejected call does not update the stored timestamp, so a burst of messages
// does not extend the cooldown window.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastAccepted[userID]; ok && now.Sub(last) < l.cooldown {
		return false
	}

	l.lastAccepted[userID] = now
	return true
}

// Sweep removes entries whose last accepted message is older than the TTL and
// returns the number of entries removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for userID, last := range l.lastAccepted {
		if now.Sub(last) >= l.ttl {
			delete(l.lastAccepted, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked users.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastAccepted)
}
