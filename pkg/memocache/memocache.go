package memocache

import (
	"fmt"
	"sync"
	"time"
)

// Default sizing for cache construction. Call sites that expect heavier
// traffic (the resolver) override these via configuration.
const (
	DefaultMaxEntries = 1024
	DefaultTTL        = 600 * time.Second
)

// entry is a stored value with its absolute expiry time.
type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a bounded in-memory key→value store with per-entry TTL.
//
// Every Set stamps the entry with now+ttl; reads never extend an entry's
// lifetime. When an insert pushes the store past its bound, the entry with
// the earliest expiry is evicted, which for a fixed TTL is the
// least-recently-written one.
//
// All methods are safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	store      map[string]entry
	maxEntries int
	ttl        time.Duration
}

// New creates a Cache holding at most maxEntries entries, each expiring
// ttl after it was written. Both parameters must be positive.
func New(maxEntries int, ttl time.Duration) (*Cache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("memocache: maxEntries must be positive, got %d", maxEntries)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("memocache: ttl must be positive, got %s", ttl)
	}
	return &Cache{
		store:      make(map[string]entry, maxEntries),
		maxEntries: maxEntries,
		ttl:        ttl,
	}, nil
}

// Get returns the value stored under key, if present and not expired.
//
// An expired entry is deleted as part of the call and reported as absent.
// Get never modifies an entry's expiry.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.store, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with expiry now+ttl, overwriting any previous
// entry. Inserts always succeed: if the store exceeds its bound afterwards,
// the entry with the earliest expiry is evicted.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	if len(c.store) > c.maxEntries {
		c.evictOldest()
	}
}

// Delete removes key from the cache. Deleting an absent key is a no-op.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
}

// Len returns the number of entries currently stored, including entries
// that have expired but not yet been removed by a lazy read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// TTL returns the time-to-live applied to new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// evictOldest removes the entry closest to expiry. Ties are broken
// arbitrarily by map iteration order. Caller must hold c.mu.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.store {
		if first || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
			first = false
		}
	}
	delete(c.store, oldestKey)
}
