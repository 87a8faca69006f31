package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tdvisu/pkg/cache"
	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/observability"
	"github.com/matzehuels/tdvisu/pkg/render/auxgraph"
	"github.com/matzehuels/tdvisu/pkg/render/diagram"
	"github.com/matzehuels/tdvisu/pkg/render/tdstep"
	"github.com/matzehuels/tdvisu/pkg/svgjoin"
)

// Runner executes the pipeline with a render cache.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner for different documents.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute renders doc, rendering through the runner's cache unless opts
// brings its own renderer.
func (r *Runner) Execute(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Renderer == nil {
		opts.Renderer = diagram.NewCached(diagram.NewGraphviz(), r.Cache, r.Keyer, opts.Logger)
	}
	return Visualize(ctx, doc, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Visualize renders every frame series doc describes into opts.OutFolder.
func Visualize(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	opts.SetDefaults()
	logger := opts.Logger

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	graphs := auxgraph.FromDocument(doc)
	if err := uniqueNames(doc.TDFile, graphs); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutFolder, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "create output folder %s", opts.OutFolder)
	}

	res := &Result{
		Files: make(map[string]int, len(graphs)+1),
		Stats: Stats{Steps: len(doc.Timeline)},
	}

	// Stage 1: tree decomposition
	start := time.Now()
	frames, err := renderTD(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	res.Files[doc.TDFile] = frames
	res.Stats.Frames += frames
	res.Stats.TDTime = time.Since(start)
	logger.Info("rendered tree decomposition",
		"frames", frames,
		"duration", res.Stats.TDTime)

	// Stage 2: auxiliary graphs
	if len(graphs) > 0 {
		start = time.Now()
		counts, err := renderAux(ctx, doc, graphs, opts)
		if err != nil {
			return nil, err
		}
		for i, g := range graphs {
			res.Files[g.Name] = counts[i]
			res.Stats.Frames += counts[i]
		}
		res.Stats.AuxTime = time.Since(start)
		logger.Info("rendered auxiliary graphs",
			"graphs", len(graphs),
			"duration", res.Stats.AuxTime)
	}

	// Stage 3: join
	if doc.SvgJoin != nil {
		start = time.Now()
		jo := doc.SvgJoin.Options(opts.OutFolder)
		jo.Logger = logger
		err := svgjoin.Join(ctx, jo)
		res.Stats.JoinTime = time.Since(start)
		observability.Pipeline().OnJoinComplete(ctx, jo.NumImages, res.Stats.JoinTime, err)
		if err != nil {
			return nil, err
		}
		res.Joined = len(jo.BaseNames) > 1
	}
	return res, nil
}

func renderTD(ctx context.Context, doc *document.Document, opts Options) (int, error) {
	hooks := observability.Pipeline()
	m, err := tdstep.New(doc, opts.Logger)
	if err != nil {
		return 0, err
	}
	sink := NewFileSink(opts.OutFolder, doc.TDFile, opts.KeepSource)

	start := time.Now()
	hooks.OnDiagramStart(ctx, doc.TDFile, len(doc.Timeline))
	err = m.Run(ctx, opts.Renderer, sink)
	hooks.OnDiagramComplete(ctx, doc.TDFile, sink.Frames(), time.Since(start), err)
	return sink.Frames(), err
}

// renderAux renders each graph on its own goroutine. A graph's diagram is
// only touched by the goroutine rendering it.
func renderAux(ctx context.Context, doc *document.Document, graphs []*auxgraph.Graph, opts Options) ([]int, error) {
	hooks := observability.Pipeline()
	steps := auxgraph.VarTimeline(doc)
	counts := make([]int, len(graphs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Parallelism)
	for i, g := range graphs {
		eg.Go(func() error {
			sink := NewFileSink(opts.OutFolder, g.Name, opts.KeepSource)
			start := time.Now()
			hooks.OnDiagramStart(egCtx, g.Name, len(steps))
			err := g.Run(egCtx, opts.Renderer, steps, sink, opts.Logger)
			hooks.OnDiagramComplete(egCtx, g.Name, sink.Frames(), time.Since(start), err)
			counts[i] = sink.Frames()
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func uniqueNames(td string, graphs []*auxgraph.Graph) error {
	seen := map[string]bool{td: true}
	for _, g := range graphs {
		if seen[g.Name] {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "two diagrams write frames named %q", g.Name)
		}
		seen[g.Name] = true
	}
	return nil
}
