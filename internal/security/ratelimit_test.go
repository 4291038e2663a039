package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_WindowBehavior(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base

	rl := NewRateLimiter(3, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"), "request beyond the limit must be rejected")

	// A different caller is unaffected.
	assert.True(t, rl.Allow("5.6.7.8"))

	// The request at exactly the window boundary is accepted and resets the counter.
	now = base.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiter_PurgesExpiredEntries(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base

	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		rl.Allow(string(rune('a' + i)))
	}

	now = base.Add(2 * time.Minute)
	rl.Allow("fresh")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.entries, 1, "expired entries must be purged")
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)

	assert.Equal(t, DefaultMaxRequests, rl.max)
	assert.Equal(t, DefaultWindow, rl.window)
}
