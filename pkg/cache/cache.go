// Package cache stores rendered diagrams between runs.
//
// Rendering a frame through Graphviz dominates the cost of a visualization,
// and in watch mode most frames do not change between two runs. The render
// layer therefore keys every artifact by a hash of its layout engine, output
// format and DOT source (see [Keyer]) and asks a [Cache] before rendering.
//
// Two implementations are provided:
//   - [FileCache]: entries stored as files under a directory, used by the CLI
//   - [NullCache]: never stores anything, used with --no-cache and in tests
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired or corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache misses on every lookup and drops every write. It backs
// --no-cache.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
