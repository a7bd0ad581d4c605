// Package cache provides byte caches for fetched board resources.
//
// The resolver fetches the same symbol images over and over across exports:
// every board of a set tends to share the same few hundred pictograms. A
// [Cache] keeps the raw response bytes so repeated exports skip the network.
//
// Three backends are provided:
//
//   - [NullCache]: never stores anything (the default)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP export server
//
// Keys are produced by a [Keyer] so that deployments can scope them with
// [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
//
// Get returns (nil, false, nil) on a miss. Implementations must be safe for
// concurrent use: the converter fetches images of one board in parallel.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes of cached values.
const (
	// TTLFetch is how long fetched image bytes are kept.
	TTLFetch = 7 * 24 * time.Hour
	// TTLRaster is how long normalized print images are kept.
	TTLRaster = 30 * 24 * time.Hour
)
