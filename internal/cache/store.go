// Package cache exposes the key/value cache API over a swappable store.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound keeps cache 404s consistent across implementations.
var ErrKeyNotFound = errors.New("cache key not found")

// Store is the cache persistence boundary. Implementations: RedisStore and
// MemoryStore, selected at construction time.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
}
