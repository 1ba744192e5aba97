// Package cache provides content-addressed caching for conversion results.
//
// Conversions are pure functions of their input bytes and output name, so
// results can be cached under a SHA-256 key of both. Three backends are
// provided: a file-based cache for CLI usage, a Redis cache for the HTTP
// service, and a null cache for disabling caching entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte values under string keys with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DocumentKey derives the cache key for a built SVG document from the source
// image bytes. The document is a pure function of the image, so identical
// inputs share one entry regardless of the requested output name.
func DocumentKey(image []byte) string {
	return "svg:" + Hash(image)
}
