package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for embedding-vector caching operations
type CacheRepository interface {
	GetVector(ctx context.Context, key string) ([]float32, error)
	SetVector(ctx context.Context, key string, vector []float32, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EmbeddingProvider defines the interface to the external embedding model.
// Implementations must be deterministic for identical input, must not mutate
// inputs, and must return unit-norm vectors of a fixed dimension.
type EmbeddingProvider interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
	Dimension() int
}

// SnapshotStore round-trips a built ProductIndex so a restart can skip the rebuild
type SnapshotStore interface {
	Save(ctx context.Context, idx *ProductIndex) error
	Load(ctx context.Context) (*ProductIndex, error)
}

// CatalogSource loads the raw product batch the index is built from
type CatalogSource interface {
	LoadProducts(ctx context.Context) ([]Product, error)
}
