// Package cache stores partition results between runs.
//
// Partitioning is the expensive step of a run: up to thousands of randomized
// trials over the whole field graph. Its result depends only on the geometry,
// the printable volume and the partition options (not on the worker count),
// so it is cached under a key derived from exactly those inputs; see
// [Keyer.PartitionKey].
//
// Three backends implement [Cache]:
//
//   - [NullCache] never stores anything (caching disabled).
//   - [FileCache] keeps JSON entries under the user cache directory; it is the
//     CLI default.
//   - [RedisCache] shares entries between server instances.
package cache

import (
	"context"
	"time"
)

// TTLPartition is how long partition results are kept.
const TTLPartition = 30 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss; expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
