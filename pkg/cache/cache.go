// Package cache provides the byte cache behind the render pipeline.
//
// Rendered artifacts are cached by content: keys are derived from a hash of
// the computed layout, the map definition and its image file, plus every
// option that affects the output, so editing a definition or changing the
// viewport size never returns a stale render. Layouts themselves are
// recomputed on every run and never stored.
//
// # Backends
//
//   - [FileCache]: entries as JSON files under the user cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP server)
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds keys. [ScopedKeyer] prefixes every key, which lets
// several servers share one Redis instance without colliding.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// TTLArtifact is how long a rendered artifact is kept.
const TTLArtifact = 7 * 24 * time.Hour

// ErrUnavailable is returned when a backend cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// NullCache misses on every Get and discards every Set. The CLI uses it
// for --no-cache and when Redis is down.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
