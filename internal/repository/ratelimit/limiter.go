// Package ratelimit admits requests per client under a sliding-window
// policy, kept entirely in process memory.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of admissions per window.
	DefaultLimit = 30
	// DefaultWindow is the rolling window length.
	DefaultWindow = time.Minute
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	// ResetAt is when the oldest counted hit leaves the window. A
	// rejected client can retry at that point.
	ResetAt time.Time
}

// sweepEvery is how many admission checks pass between full stale-key
// sweeps. Client keys come from request headers, so without the sweep
// the map would grow by one entry per spoofed address.
const sweepEvery = 256

// Limiter keeps a pruned timestamp log per client key. State is lazily
// initialized on first sight of a key; logs are pruned on every touch,
// and keys whose whole window expired are dropped by a periodic sweep,
// so the map stays bounded by recently active clients.
type Limiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
	calls  int
}

// New creates a limiter. Non-positive limit or window fall back to the
// defaults.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records an admission attempt for the client key and reports
// whether it fits inside the rolling window.
func (l *Limiter) Allow(clientKey string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	l.calls++
	if l.calls >= sweepEvery {
		l.calls = 0
		l.sweep(cutoff)
	}

	log := l.hits[clientKey]
	pruned := log[:0]
	for _, ts := range log {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= l.limit {
		l.hits[clientKey] = pruned
		return Decision{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   pruned[0].Add(l.window),
		}
	}

	pruned = append(pruned, now)
	l.hits[clientKey] = pruned

	return Decision{
		Allowed:   true,
		Remaining: l.limit - len(pruned),
		ResetAt:   pruned[0].Add(l.window),
	}
}

// Len returns the number of client keys currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// sweep drops keys whose newest hit left the window. Must be called
// with l.mu held.
func (l *Limiter) sweep(cutoff time.Time) {
	for key, log := range l.hits {
		if len(log) == 0 || !log[len(log)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
}
