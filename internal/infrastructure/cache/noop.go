package cache

import (
	"context"
	"time"

	"github.com/pureskin/dupefinder/internal/domain"
)

// NoopCache disables caching entirely. Every lookup is a miss and writes
// are discarded, so each embedding request goes straight to the provider.
type NoopCache struct{}

// NewNoopCache creates a cache that never stores anything
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// GetVector always reports a miss
func (c *NoopCache) GetVector(ctx context.Context, key string) ([]float32, error) {
	return nil, domain.ErrCacheMiss
}

// SetVector discards the vector
func (c *NoopCache) SetVector(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	return nil
}

// Delete is a no-op
func (c *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Exists always reports absent
func (c *NoopCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}
