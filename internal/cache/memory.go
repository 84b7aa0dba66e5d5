package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTL is a bounded key/value cache with per-entry expiry. Once maxSize
// entries are present, inserting a new key evicts the oldest-inserted
// key first. Safe for concurrent readers and writers.
type TTL[V any] struct {
	mu         sync.Mutex
	backing    *gocache.Cache
	order      []string // insertion order, oldest first
	maxSize    int
	defaultTTL time.Duration
	hits       uint64
	misses     uint64
	disposed   bool
}

// NewTTL creates a cache holding at most maxSize entries, each expiring
// after defaultTTL unless Set is given an explicit TTL.
func NewTTL[V any](maxSize int, defaultTTL time.Duration) *TTL[V] {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &TTL[V]{
		backing:    gocache.New(defaultTTL, DefaultCleanupInterval),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value. Expired entries count as misses.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return zero, false
	}
	if val, found := c.backing.Get(key); found {
		c.hits++
		return val.(V), true
	}
	c.misses++
	return zero, false
}

// Set stores a value. A ttl of 0 uses the cache default. Inserting a new
// key into a full cache evicts the oldest-inserted key.
func (c *TTL[V]) Set(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	if _, exists := c.backing.Get(key); !exists {
		// A re-set of an expired key must not leave a stale order entry
		// behind, or a later eviction would remove the live value.
		for i, k := range c.order {
			if k == key {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
		for len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			c.backing.Delete(oldest)
		}
		c.order = append(c.order, key)
	}
	c.backing.Set(key, value, ttl)
}

// Has reports whether a live entry exists without touching hit stats
func (c *TTL[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return false
	}
	_, found := c.backing.Get(key)
	return found
}

// Clear removes all entries, keeping the cache usable
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backing.Flush()
	c.order = c.order[:0]
}

// Dispose empties the cache and rejects further use
func (c *TTL[V]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backing.Flush()
	c.order = nil
	c.disposed = true
}

// Stats returns current occupancy and hit rate. Size counts live
// entries only; expired entries awaiting the sweeper are excluded.
func (c *TTL[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:    len(c.backing.Items()),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}
