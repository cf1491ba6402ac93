package usecase

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// verifyThrottle holds per-credential rate limiters to slow down online
// secret guessing. Each credential id gets an independent token bucket.
type verifyThrottle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	rps      float64
	burst    int
}

// throttleEntry holds a rate limiter and last access time for cleanup.
type throttleEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newVerifyThrottle(rps float64, burst int) *verifyThrottle {
	return &verifyThrottle{
		limiters: make(map[string]*throttleEntry),
		rps:      rps,
		burst:    burst,
	}
}

// Allow reports whether a verification attempt for the credential is within
// its rate budget.
func (t *verifyThrottle) Allow(credentialID string) bool {
	t.mu.Lock()
	entry, ok := t.limiters[credentialID]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(rate.Limit(t.rps), t.burst)}
		t.limiters[credentialID] = entry
	}
	entry.lastAccess = time.Now()
	t.mu.Unlock()

	return entry.limiter.Allow()
}

// cleanupStale drops limiters that have not been used within maxAge. Called
// opportunistically; there is no background goroutine so library consumers
// do not inherit one.
func (t *verifyThrottle) cleanupStale(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)

	t.mu.Lock()
	defer t.mu.Unlock()
	for id, entry := range t.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(t.limiters, id)
		}
	}
}
