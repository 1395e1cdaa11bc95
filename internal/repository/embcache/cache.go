// Package embcache is a bounded, TTL-based in-process cache mapping a
// normalized query to a previously computed embedding vector.
//
// Eviction is insertion-order FIFO with refresh-on-write: Set deletes
// then re-inserts, and capacity overflow evicts the oldest-inserted
// key. This is deliberately not true LRU — a miss only costs one extra
// provider call, so the simpler ordering is good enough.
package embcache

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultMaxEntries bounds the cache size.
	DefaultMaxEntries = 200
	// DefaultTTL is how long an entry stays valid.
	DefaultTTL = 10 * time.Minute
)

type entry struct {
	vector    []float32
	expiresAt time.Time
}

// Cache is safe for concurrent use. All operations are O(1) map access
// plus at most one linear order-slice removal, so a single mutex is fine.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []string // insertion order, oldest first
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// New creates an empty cache. Non-positive maxEntries or ttl fall back
// to the defaults.
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached vector for the key. A key found expired is
// treated as absent and removed. Keys are case-insensitive so
// "Bukovec" and "bukovec" share a slot.
func (c *Cache) Get(key string) ([]float32, bool) {
	key = strings.ToLower(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.remove(key)
		return nil, false
	}
	return e.vector, true
}

// Set stores a vector under the key. An existing key is removed first
// so the re-insert lands at the back of the order; if the insert pushes
// the cache over capacity, the oldest-inserted entry is evicted.
func (c *Cache) Set(key string, vector []float32) {
	key = strings.ToLower(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}

	c.entries[key] = entry{vector: vector, expiresAt: c.now().Add(c.ttl)}
	c.order = append(c.order, key)

	if len(c.entries) > c.maxEntries {
		c.remove(c.order[0])
	}
}

// Len returns the number of live entries, expired ones included until
// their next Get.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with c.mu held.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
