package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pureskin/dupefinder/internal/domain"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Prefix   string
}

// RedisCache implements the embedding cache backed by Redis. Vectors are
// stored as little-endian float32 blobs so entries stay compact and
// comparable across platforms.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed embedding cache and verifies the
// connection with a ping before returning.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: ping failed: %v", domain.ErrCacheUnavailable, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "dupefinder:"
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
	}, nil
}

// GetVector retrieves an embedding from Redis
func (c *RedisCache) GetVector(ctx context.Context, key string) ([]float32, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	vector, err := decodeVector(val)
	if err != nil {
		// Treat a corrupt entry as a miss so the caller re-encodes
		return nil, domain.ErrCacheMiss
	}

	return vector, nil
}

// SetVector stores an embedding in Redis. A zero TTL stores the entry
// without expiration.
func (c *RedisCache) SetVector(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	if err := c.client.Set(ctx, c.prefix+key, encodeVector(vector), ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes an embedding from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Exists checks whether a key is present in Redis
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return n > 0, nil
}

// Close closes the underlying Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// encodeVector converts a float32 slice to a binary blob for storage.
// Uses little-endian encoding for consistency across platforms.
func encodeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, val := range vector {
		bits := math.Float32bits(val)
		binary.LittleEndian.PutUint32(blob[i*4:(i+1)*4], bits)
	}
	return blob
}

// decodeVector converts a binary blob back to a float32 slice
func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("malformed vector blob: %d bytes", len(data))
	}

	vector := make([]float32, len(data)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(data[i*4 : (i+1)*4])
		vector[i] = math.Float32frombits(bits)
	}
	return vector, nil
}
