// Package cache provides an optional Redis-backed result cache for repeated
// dashboard queries. A nil *Cache is valid and disables caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with query-result semantics: values are keyed
// by a hash of the query text and expire after a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache against the given Redis endpoint.
func New(addr, password string, db int, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Key derives the cache key for a query string.
func Key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return "ordersight:query:" + hex.EncodeToString(sum[:])
}

// Get returns the cached payload for a query, or ok=false on a miss. Cache
// failures are reported as misses with the error attached so callers can log
// and fall through to the engine.
func (c *Cache) Get(ctx context.Context, query string) ([]byte, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	val, err := c.client.Get(ctx, Key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}
	return val, true, nil
}

// Set stores a query result payload under the query's key.
func (c *Cache) Set(ctx context.Context, query string, payload []byte) error {
	if c == nil {
		return nil
	}
	if err := c.client.Set(ctx, Key(query), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
