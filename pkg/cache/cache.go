// Package cache provides byte caches for fetched images and rendered
// artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: entries under a directory, used by the CLI
//     ($XDG_CACHE_HOME/cardgen)
//   - [RedisCache]: a shared Redis instance, for server deployments
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are produced by a [Keyer] so that callers never build key strings by
// hand, and a [ScopedKeyer] can namespace a whole keyspace.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLImage applies to images fetched from remote sources.
	TTLImage = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered sheets. Rendering is deterministic, so
	// artifacts only go stale when the inputs change, which changes the key.
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
