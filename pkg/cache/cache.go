// Package cache stores rendered fragments between runs.
//
// A [Cache] is a plain byte store with per-entry TTL. Four backends are
// provided: [NullCache] (disabled), [FileCache] (local directory, used by the
// CLI), [RedisCache] and [MongoCache] (shared, used by the HTTP server).
//
// Keys are produced by a [Keyer] so that the pipeline never builds key
// strings by hand. Every option that changes the output is part of the key.
package cache

import (
	"context"
	"time"
)

// TTLFragment is the default lifetime of a cached fragment.
const TTLFragment = 7 * 24 * time.Hour

// Cache is a byte store with expiring entries. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any connections held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// FragmentKey returns the key for the output of one filter run.
	FragmentKey(inputHash string, opts FragmentKeyOpts) string
}

// FragmentKeyOpts holds the options that change a filter run's output.
type FragmentKeyOpts struct {
	Escape      bool   `json:"escape"`
	Markdown    bool   `json:"markdown"`
	Fingerprint string `json:"fingerprint"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FragmentKey hashes the input hash together with the options.
func (DefaultKeyer) FragmentKey(inputHash string, opts FragmentKeyOpts) string {
	return hashKey("fragment", inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
