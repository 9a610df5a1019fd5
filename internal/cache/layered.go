package cache

import (
	"errors"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// LayeredCache checks a fast cache before a slow one and promotes hits
type LayeredCache struct {
	fast Cache
	slow Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(fast, slow Cache) *LayeredCache {
	return &LayeredCache{fast: fast, slow: slow}
}

// New builds the cache described by cfg: memory only, or memory over disk
// when a directory is configured.
func New(cfg model.CacheConfig) Cache {
	memTTL := time.Duration(cfg.MemoryTTL) * time.Second
	mem := NewMemoryCache(memTTL, 10*time.Minute)
	if cfg.Dir == "" {
		return mem
	}
	return NewLayeredCache(mem, NewDiskCache(cfg.Dir, time.Duration(cfg.DiskTTL)*time.Second))
}

// Get retrieves a value from the fast layer, then the slow layer
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.fast.Get(key); found {
		return val, true
	}

	if val, found := c.slow.Get(key); found {
		_ = c.fast.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.fast.Set(key, value, ttl); err != nil {
		return err
	}
	return c.slow.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.fast.Delete(key), c.slow.Delete(key))
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.fast.Clear(), c.slow.Clear())
}
