// Package cache stores rendered pattern previews.
//
// Previews are content-addressed: the key of an artifact is derived from the
// hash of the layout it was rendered from plus the output format, so editing
// sessions that reach the same pattern state share cached renders, and undo
// or redo back to a previous state is a cache hit.
//
// Backends:
//   - [NullCache]: disables caching
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [RedisCache]: shared cache for the HTTP server
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered previews are kept.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the cached value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl stores it without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
