package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultMemoryEntries bounds the memory layer when no limit is given
const DefaultMemoryEntries = 1024

// MemoryCache holds analysis payloads in process with per-entry expiry.
// Values are copied in and out so a caller mutating a returned slice
// never changes what later lookups see.
type MemoryCache struct {
	entries    *gocache.Cache
	maxEntries int
}

// NewMemoryCache creates a memory cache holding at most maxEntries payloads.
// Expired payloads are swept every defaultTTL.
func NewMemoryCache(defaultTTL time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	sweep := defaultTTL
	if sweep <= 0 {
		sweep = 10 * time.Minute
	}
	return &MemoryCache{
		entries:    gocache.New(defaultTTL, sweep),
		maxEntries: maxEntries,
	}
}

// Get returns a copy of the cached payload
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.entries.Get(key)
	if !found {
		return nil, false
	}
	return clone(val.([]byte)), true
}

// Set stores a copy of value. A zero TTL uses the cache default.
// When the cache is full, expired payloads are dropped first; a new key
// that still does not fit is not stored.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	if _, exists := c.entries.Get(key); !exists && c.entries.ItemCount() >= c.maxEntries {
		c.entries.DeleteExpired()
		if c.entries.ItemCount() >= c.maxEntries {
			return nil
		}
	}
	c.entries.Set(key, clone(value), ttl)
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) error {
	c.entries.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() error {
	c.entries.Flush()
	return nil
}

// Len returns the number of entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.entries.ItemCount()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
