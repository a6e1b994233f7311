package api

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-client limiter for mutating endpoints.
// Windows are tracked in memory; a restart forgets them, which is fine for a
// single-user deployment.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*windowCount

	now func() time.Time
}

type windowCount struct {
	count int
	reset time.Time
}

// NewRateLimiter allows limit requests per client per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		hits:   map[string]*windowCount{},
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	wc, ok := rl.hits[key]
	if !ok || now.After(wc.reset) {
		rl.hits[key] = &windowCount{count: 1, reset: now.Add(rl.window)}
		rl.gc(now)
		return true
	}
	wc.count++
	return wc.count <= rl.limit
}

// gc drops expired windows; called under the lock on window rollover.
func (rl *RateLimiter) gc(now time.Time) {
	for key, wc := range rl.hits {
		if now.After(wc.reset) {
			delete(rl.hits, key)
		}
	}
}

// Middleware rejects over-limit requests with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			key = r.RemoteAddr
		}
		if !rl.Allow(key) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
