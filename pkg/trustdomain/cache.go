// Package trustdomain provides a bounded, LRU-backed cache that interns
// certificate objects by encoding so that repeated promotions of the same
// underlying DER bytes converge on one shared object: an LRU cache guarded
// by a mutex, with an optional per-entry TTL after which an entry is
// treated as absent and refreshed on next access.
package trustdomain

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache interns values under a UID-shaped string key. The first caller to
// Intern a given key wins: later calls with the same key return the
// winner, discarding the new candidate — this is the single interning
// point that preserves "one decoded object per DER encoding" across a
// process.
type Cache interface {
	// Intern returns the cache's value for key, storing candidate as
	// that value if key was not already present (or had expired).
	Intern(key string, candidate any) any
	// Len reports the number of live (non-expired) entries.
	Len() int
}

// LRU is a bounded Cache backed by an LRU eviction policy, with an
// optional TTL after which an entry is treated as absent and is
// refreshed on the next Intern.
type LRU struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, any]
	ttl    time.Duration
	expiry map[string]time.Time
}

// NewLRU creates a Cache holding at most size entries. ttl of zero means
// entries never expire on their own (they are still subject to LRU
// eviction once size is exceeded).
func NewLRU(size int, ttl time.Duration) (*LRU, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &LRU{
		cache:  c,
		ttl:    ttl,
		expiry: make(map[string]time.Time),
	}, nil
}

// Intern implements Cache.
func (c *LRU) Intern(key string, candidate any) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.cache.Get(key); ok {
		if exp, hasExpiry := c.expiry[key]; !hasExpiry || time.Now().Before(exp) {
			return existing
		}
		c.cache.Remove(key)
		delete(c.expiry, key)
	}

	c.cache.Add(key, candidate)
	if c.ttl > 0 {
		c.expiry[key] = time.Now().Add(c.ttl)
	}
	return candidate
}

// Len implements Cache.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	n := 0
	for _, key := range c.cache.Keys() {
		if exp, hasExpiry := c.expiry[key]; !hasExpiry || now.Before(exp) {
			n++
		}
	}
	return n
}
