// Package cache stores computed diagrams and rendered artifacts.
//
// Layout is a pure function of the input text and the layout options, and
// rendering is a pure function of the diagram and the render options, so
// both results are cached under content-addressed keys built by a [Keyer].
//
// Backends:
//   - [FileCache]: sharded JSON files, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Default TTLs. Entries never go stale, so these only bound disk and memory.
const (
	DiagramTTL  = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache never stores anything; every Get misses. It backs --no-cache
// and the "none" backend.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
