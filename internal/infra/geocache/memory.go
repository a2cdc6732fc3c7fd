package geocache

import (
	"context"
	"sync"
	"time"

	"github.com/climalab/clima-chat/internal/domain/weather"
)

type entry struct {
	loc       weather.Location
	expiresAt time.Time
}

// MemoryCache is an in-process geocode cache for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry)}
}

// Get implements weather.Cache.
func (c *MemoryCache) Get(_ context.Context, place string) (weather.Location, bool, error) {
	c.mu.RLock()
	record, ok := c.entries[place]
	c.mu.RUnlock()
	if !ok {
		return weather.Location{}, false, nil
	}
	if hasExpired(record.expiresAt) {
		c.mu.Lock()
		delete(c.entries, place)
		c.mu.Unlock()
		return weather.Location{}, false, nil
	}
	return record.loc, true, nil
}

// Put caches the location with optional TTL.
func (c *MemoryCache) Put(_ context.Context, place string, loc weather.Location, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[place] = entry{loc: loc, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ weather.Cache = (*MemoryCache)(nil)
