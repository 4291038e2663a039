package security

import (
	"sync"
	"time"
)

// Default rate-limit parameters for the public form endpoints.
const (
	DefaultMaxRequests = 10
	DefaultWindow      = time.Minute
)

// RateLimiter is a fixed-window per-IP request counter held in process
// memory. Counts are scoped to a single service instance and reset on
// restart, so the limit is best-effort when multiple instances run behind a
// load balancer; callers that need a globally consistent quota must put the
// counter in shared storage instead.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	max     int
	window  time.Duration

	// now is overridable for tests.
	now func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a limiter allowing max requests per window per IP.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = DefaultMaxRequests
	}

	if window <= 0 {
		window = DefaultWindow
	}

	return &RateLimiter{
		entries: make(map[string]*windowEntry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request from ip and reports whether it is within the
// configured limit. Expired entries are purged opportunistically so the map
// does not grow without bound.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	for key, e := range rl.entries {
		if !now.Before(e.resetAt) {
			delete(rl.entries, key)
		}
	}

	e, ok := rl.entries[ip]
	if !ok || !now.Before(e.resetAt) {
		rl.entries[ip] = &windowEntry{count: 1, resetAt: now.Add(rl.window)}
		return true
	}

	if e.count >= rl.max {
		return false
	}

	e.count++

	return true
}
