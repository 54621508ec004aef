// Package cache is an in-process, size bounded cache with a time to live.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache stores values of cost 1 each, expiring after ttl.
type Cache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

// New creates a cache holding up to maxCost entries.
func New(maxCost int64, ttl time.Duration) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: ttl}, nil
}

// Get returns the value of key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) { return c.c.Get(key) }

// Set is asynchronous: the value may not be visible to Get before Wait returns.
func (c *Cache) Set(key string, val any) { c.c.SetWithTTL(key, val, 1, c.ttl) }

// Del removes key.
func (c *Cache) Del(key string) { c.c.Del(key) }

// Wait blocks until the pending writes are applied.
func (c *Cache) Wait() { c.c.Wait() }

// Close stops the cache goroutines.
func (c *Cache) Close() { c.c.Close() }
