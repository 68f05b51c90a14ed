package repositories

import (
	"context"
	"time"
)

// CacheStore is a small key/value store with expiry, backed by Redis in
// production and by process memory otherwise.
type CacheStore interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetIfAbsent stores value under key only if the key does not exist and
	// reports whether it did.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, keys ...string) error
}
