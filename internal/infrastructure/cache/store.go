// Package cache provides the short-lived key/value store behind request-scoped lookups,
// backed by redis when configured and process memory otherwise.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented cache with per-key expiry
type Store interface {
	// Get returns the value and true, or false when the key is missing or expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
