package engine

import (
	"time"
)

const defaultCacheCapacity = 500

type cacheEntry struct {
	payload  string
	storedAt time.Time
}

// ResultCache holds serialised fetch results keyed by a stable string
// derived from the request parameters. Entries expire after a fixed TTL
// and the cache never exceeds its capacity: inserting into a full cache
// evicts the oldest entry by insertion order.
//
// The cache is only touched from the engine goroutine, so it needs no
// locking.
type ResultCache struct {
	entries  map[string]cacheEntry
	order    []string
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewResultCache creates a cache whose entries expire after ttl.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		capacity: defaultCacheCapacity,
		now:      time.Now,
	}
}

// Get returns the cached payload for key if present and not expired.
func (c *ResultCache) Get(key string) (string, bool) {
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return "", false
	}
	return e.payload, true
}

// Put stores payload under key, evicting the oldest entry if the cache is
// at capacity and key is not already present.
func (c *ResultCache) Put(key, payload string) {
	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.capacity && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{payload: payload, storedAt: c.now()}
}

// Len returns the number of live entries, expired or not.
func (c *ResultCache) Len() int {
	return len(c.entries)
}
