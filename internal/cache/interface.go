package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// ListingCache stores serialized listing pages under a versioned namespace.
// Bumping the version orphans every page cached under the previous one, so
// invalidation never needs to enumerate keys.
type ListingCache interface {
	// Version returns the current namespace version
	Version(ctx context.Context) (int64, error)
	// Bump advances the namespace version
	Bump(ctx context.Context) error

	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value with the backend's configured TTL
	Set(ctx context.Context, key string, value []byte) error
}
