// Package cache implements ports.CredentialCache in memory and on Redis.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/talent-api/internal/application/ports"
)

var _ ports.CredentialCache = (*MemoryCache)(nil)

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache keeps credentials in process. Expired entries are dropped on read.
type MemoryCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEntry
}

// NewMemoryCache builds a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, items: map[string]memoryEntry{}}
}

func (c *MemoryCache) Put(_ context.Context, requestID, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[requestID] = memoryEntry{value: password, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, requestID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[requestID]
	if !ok {
		return "", false, nil
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		delete(c.items, requestID)
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Delete(_ context.Context, requestID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, requestID)
	return nil
}
