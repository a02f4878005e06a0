package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var _ Cache = (*MemoryCache)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache keeps entries in a bounded in-process LRU. It is meant for
// single-instance deployments and tests where no Redis is available.
type MemoryCache struct {
	entries *expirable.LRU[string, memoryEntry]
	now     func() time.Time
}

func NewMemoryCache(size int) *MemoryCache {
	return &MemoryCache{
		// Expiry is tracked per entry, the LRU only bounds the size.
		entries: expirable.NewLRU[string, memoryEntry](size, nil, 0),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !c.now().Before(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, ErrMiss
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries.Add(key, memoryEntry{value: stored, expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}
