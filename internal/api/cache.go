package api

import (
	"sync"
	"time"
)

// memo is a single-value TTL cache for the overview payload, which is the
// hottest read and pure recomputation. Mutating handlers call invalidate.
type memo struct {
	mu      sync.Mutex
	value   any
	expires time.Time
	ttl     time.Duration
}

func newMemo(ttl time.Duration) *memo {
	return &memo{ttl: ttl}
}

func (m *memo) get(now time.Time) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.value == nil || now.After(m.expires) {
		return nil, false
	}
	return m.value, true
}

func (m *memo) set(v any, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
	m.expires = now.Add(m.ttl)
}

func (m *memo) invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = nil
}
