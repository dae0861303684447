package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider is a byte-oriented key/value cache with per-key expiry.
// It fronts the persistent search cache; losing it never loses data.
type CacheProvider interface {
	// Get retrieves a value; ErrCacheMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value that expires after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error
}
