package domain

import "errors"

var (
	// ErrIndexNotReady is returned when a build-dependent operation runs before an index exists
	ErrIndexNotReady = errors.New("product index not built")

	// ErrIndexMisaligned is returned when product rows and vector rows do not correspond 1:1
	ErrIndexMisaligned = errors.New("product index rows misaligned with vectors")

	// ErrEmptyCatalog is returned when an index build receives no products
	ErrEmptyCatalog = errors.New("no products to index")

	// ErrProviderUnavailable is returned when the embedding provider cannot be reached
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrCacheMiss is returned when a vector is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrSnapshotNotFound is returned when no persisted index snapshot exists
	ErrSnapshotNotFound = errors.New("index snapshot not found")

	// ErrSnapshotModelMismatch is returned when a snapshot was built with a different embedding model
	ErrSnapshotModelMismatch = errors.New("index snapshot built with different embedding model")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
