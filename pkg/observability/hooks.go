// Package observability lets the CLI watch the render pipeline.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. The CLI registers its own implementations at startup, for
// example to report how many frames came from the render cache.
//
// The diagram and pipeline packages call Pipeline() and Cache() on every
// frame, e.g.
//
//	observability.Cache().OnCacheHit(ctx, "render")
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the visualization pipeline.
type PipelineHooks interface {
	// One start/complete pair per frame series
	OnDiagramStart(ctx context.Context, name string, steps int)
	OnDiagramComplete(ctx context.Context, name string, frames int, duration time.Duration, err error)

	OnJoinComplete(ctx context.Context, images int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDiagramStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnDiagramComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnJoinComplete(context.Context, int, time.Duration, error)            {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// Frames render on many goroutines at once, so the registry is read
// without locking.
var (
	pipelineHooks atomic.Pointer[PipelineHooks]
	cacheHooks    atomic.Pointer[CacheHooks]
)

// SetPipelineHooks registers the pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.Store(&h)
	}
}

// SetCacheHooks registers the cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.Store(&h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	if h := pipelineHooks.Load(); h != nil {
		return *h
	}
	return NoopPipelineHooks{}
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	if h := cacheHooks.Load(); h != nil {
		return *h
	}
	return NoopCacheHooks{}
}

// Reset restores the no-op hooks.
func Reset() {
	pipelineHooks.Store(nil)
	cacheHooks.Store(nil)
}
