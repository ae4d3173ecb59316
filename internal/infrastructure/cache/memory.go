package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pureskin/dupefinder/internal/domain"
)

// cacheItem represents a single cached embedding with optional expiration
type cacheItem struct {
	Vector     []float32
	Expiration time.Time
}

// expired reports whether the item has an expiration and it has passed.
// A zero Expiration means the item never expires.
func (i cacheItem) expired(now time.Time) bool {
	return !i.Expiration.IsZero() && now.After(i.Expiration)
}

// MemoryCache is a thread-safe in-memory embedding cache with TTL support
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory embedding cache
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// GetVector retrieves an embedding from the cache
func (c *MemoryCache) GetVector(ctx context.Context, key string) ([]float32, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	// Check if expired
	if item.expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}

	// Copy so callers cannot mutate the cached vector
	vector := make([]float32, len(item.Vector))
	copy(vector, item.Vector)

	return vector, nil
}

// SetVector stores an embedding in the cache. A zero or negative TTL keeps
// the entry until it is deleted or evicted by Clear.
func (c *MemoryCache) SetVector(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Copy so later mutations of the caller's slice do not corrupt the cache
	stored := make([]float32, len(vector))
	copy(stored, vector)

	var expiration time.Time
	if ttl > 0 {
		expiration = time.Now().Add(ttl)
	}

	c.data[key] = cacheItem{
		Vector:     stored,
		Expiration: expiration,
	}

	return nil
}

// Delete removes an embedding from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}

	// Check if expired
	if item.expired(time.Now()) {
		return false, nil
	}

	return true, nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if item.expired(now) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
