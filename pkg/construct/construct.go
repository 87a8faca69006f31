// Package construct reads a solver trace from a [trace.Store] and assembles
// the interchange document the visualizer renders.
//
// The problem type stored with the run decides what goes into the document:
// satisfiability runs carry their formula as an incidence graph, vertex
// cover runs can attach the input graph read from a tw file.
package construct

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tdvisu/pkg/dimacs"
	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/timeline"
	"github.com/matzehuels/tdvisu/pkg/trace"
	"github.com/matzehuels/tdvisu/pkg/treedec"
)

// Options configures [Construct].
type Options struct {
	Problem int
	// Interpolate adds a visit step for every bag on the tree path between
	// two consecutively solved bags.
	Interpolate bool
	// TwFile is the input graph of a vertex cover run. Ignored for other
	// problem types.
	TwFile string
	Logger *log.Logger
}

// Construct builds the document for one solver run.
func Construct(ctx context.Context, store trace.Store, opts Options) (*document.Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := apperrors.ValidateProblemID(opts.Problem); err != nil {
		return nil, err
	}

	p, err := store.Problem(ctx, opts.Problem)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read problem %d", opts.Problem)
	}
	kind, err := timeline.ParseProblemKind(p.Type)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnsupported, err, "problem %d", opts.Problem)
	}
	logger.Info("constructing document", "problem", opts.Problem, "type", kind, "vars", p.NumVars)

	doc := document.New()

	bags, err := store.Bags(ctx, opts.Problem)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read bags")
	}
	labels, err := labelDict(ctx, store, opts.Problem, bags)
	if err != nil {
		return nil, err
	}
	edges, err := store.Edges(ctx, opts.Problem)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read decomposition edges")
	}
	checkShape(logger, bags, edges, opts.Interpolate)

	doc.TreeDec = document.TreeDec{
		BagPre:    document.DefaultBagPre,
		EdgeArray: edges,
		LabelDict: labels,
		NumVars:   p.NumVars,
	}

	events, err := store.SolveOrder(ctx, opts.Problem)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read solve order")
	}
	b := timeline.Builder{
		Source:      store,
		Problem:     opts.Problem,
		Footer:      kind.Footer(),
		Interpolate: opts.Interpolate,
		Logger:      logger,
	}
	steps, err := b.Build(ctx, events, edges)
	if err != nil {
		return nil, err
	}
	doc.Timeline = steps
	logger.Debug("built timeline", "events", len(events), "steps", len(steps))

	if kind.HasClauses() {
		inc, err := incidence(ctx, store, opts.Problem)
		if err != nil {
			return nil, err
		}
		doc.IncidenceGraphs = []document.IncidenceGraph{inc}
	}
	if kind == timeline.VertexCover && opts.TwFile != "" {
		g, err := readTwFile(opts.TwFile, logger)
		if err != nil {
			return nil, err
		}
		doc.GeneralGraphs = []document.GeneralGraph{g}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func labelDict(ctx context.Context, store trace.Store, problem int, bags []int) ([]document.Bag, error) {
	out := make([]document.Bag, 0, len(bags))
	for _, bag := range bags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := store.BagNodes(ctx, problem, bag)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read nodes of bag %d", bag)
		}
		status, err := store.BagStatus(ctx, problem, bag)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read status of bag %d", bag)
		}
		out = append(out, document.Bag{
			ID:     bag,
			Items:  items,
			Labels: document.Labels{ItemList(items), DurationLabel(status)},
		})
	}
	return out, nil
}

// ItemList formats bag items the way the bag labels show them: "[1, 2, 5]".
func ItemList(items []int) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DurationLabel formats the solve time of a bag.
func DurationLabel(ev trace.Event) string {
	return fmt.Sprintf("dtime=%.4fs", ev.Duration.Seconds())
}

func incidence(ctx context.Context, store trace.Store, problem int) (document.IncidenceGraph, error) {
	clauses, err := store.Clauses(ctx, problem)
	if err != nil {
		return document.IncidenceGraph{}, apperrors.Wrap(apperrors.ErrCodeStore, err, "read clauses")
	}
	edges := make([]document.ClauseEdge, len(clauses))
	for i, c := range clauses {
		edges[i] = document.ClauseEdge{ID: c.ID, List: c.Literals}
	}
	inc := document.NewIncidenceGraph(edges)
	inc.VarNameOne = "c_"
	inc.VarNameTwo = "v_"
	inc.InferPrimal = true
	return inc, nil
}

func readTwFile(path string, logger *log.Logger) (document.GeneralGraph, error) {
	logger.Info("reading input graph", "file", path)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return document.GeneralGraph{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "tw file %s", path)
		}
		return document.GeneralGraph{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open tw file %s", path)
	}
	defer f.Close()

	tw, err := dimacs.ReadTw(f, func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...), "file", path)
	})
	if err != nil {
		return document.GeneralGraph{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read tw file %s", path)
	}
	return document.NewGeneralGraph(tw.Edges), nil
}

func checkShape(logger *log.Logger, bags []int, edges [][2]int, interpolate bool) {
	s := treedec.Check(bags, edges)
	if len(s.Unknown) > 0 {
		logger.Warn("edges reference unknown bags", "bags", s.Unknown)
	}
	if s.SelfLoops > 0 {
		logger.Warn("decomposition has self loops", "count", s.SelfLoops)
	}
	if !s.Tree && interpolate {
		logger.Warn("decomposition is not a tree, interpolation may fail",
			"bags", s.Bags, "edges", s.Edges, "components", s.Components)
	}
}
