// Package cache provides the storage abstraction used to persist fetched
// repository documents across runs.
//
// Re-running a crawl against the same repository is dominated by network
// time. The HTTP client in [github.com/matzehuels/repograph/pkg/repository]
// stores every successfully fetched listing and descriptor under a key
// derived by a [Keyer], so an interrupted run resumes without refetching.
//
// Implementations:
//   - [FileCache]: one JSON file per entry under a directory
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLs for cached documents.
const (
	// TTLListing is how long a directory listing stays fresh.
	TTLListing = 24 * time.Hour

	// TTLDescriptor is how long a metadata or release descriptor stays fresh.
	// Release descriptors are immutable once published; metadata is not.
	TTLDescriptor = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true on a hit.
	// Expired or corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey returns the key for a fetched document.
	HTTPKey(namespace, url string) string

	// CheckpointKey returns the key under which a crawl checkpoint for root is stored.
	CheckpointKey(root string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:{namespace}:{url}".
func (DefaultKeyer) HTTPKey(namespace, url string) string {
	return "http:" + namespace + ":" + url
}

// CheckpointKey returns a hashed key so arbitrary root URLs are safe in any backend.
func (DefaultKeyer) CheckpointKey(root string) string {
	return hashKey("checkpoint", root)
}
