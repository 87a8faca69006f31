package cli

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tdvisu/pkg/observability"
)

// cacheStats counts render cache lookups. Frames render concurrently, so
// the counters are atomic.
type cacheStats struct {
	observability.NoopCacheHooks
	hits   atomic.Int64
	misses atomic.Int64
}

func (s *cacheStats) OnCacheHit(context.Context, string)  { s.hits.Add(1) }
func (s *cacheStats) OnCacheMiss(context.Context, string) { s.misses.Add(1) }

// reset zeroes the counters between watch rebuilds.
func (s *cacheStats) reset() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// logHooks reports every rendered series on the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnDiagramStart(_ context.Context, name string, steps int) {
	h.logger.Debug("rendering", "diagram", name, "steps", steps)
}

func (h logHooks) OnDiagramComplete(_ context.Context, name string, frames int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "diagram", name, "frames", frames, "err", err)
		return
	}
	h.logger.Debug("rendered", "diagram", name, "frames", frames, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnJoinComplete(_ context.Context, images int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.logger.Debug("joined", "images", images, "duration", d.Round(time.Millisecond))
}

// installHooks registers the CLI's hooks and returns the cache counters.
func (c *CLI) installHooks() *cacheStats {
	stats := &cacheStats{}
	observability.SetCacheHooks(stats)
	observability.SetPipelineHooks(logHooks{logger: c.Logger})
	return stats
}
