// Package auxgraph renders the diagrams shown next to the tree
// decomposition: general graphs over the variables, incidence graphs of a
// CNF formula and the primal and dual graphs inferred from it.
//
// Each [Graph] has a fixed base and is highlighted anew for every step of
// the timeline: the base is restored, the variables of the step's bag are
// emphasized and a frame is rendered. Steps without variables (plain visits
// and joins) render the base unchanged.
package auxgraph

import (
	"context"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/render/diagram"
)

// Style holds the document-wide settings the auxiliary graphs use.
type Style struct {
	Colors    []string
	BagColor  string
	FontColor string
	FontSize  int
	PenWidth  float64
	Emphasis  document.Emphasis
}

// StyleOf returns the style settings of doc.
func StyleOf(doc *document.Document) Style {
	return Style{
		Colors:    doc.Colors,
		BagColor:  doc.BagColor,
		FontColor: doc.FontColor,
		FontSize:  doc.FontSize,
		PenWidth:  doc.PenWidth,
		Emphasis:  doc.Emphasis,
	}
}

func (s Style) color(i int) string {
	if len(s.Colors) == 0 {
		return "black"
	}
	if i < 0 {
		i = -i
	}
	return s.Colors[i%len(s.Colors)]
}

// Graph is an auxiliary diagram highlighted once per step.
type Graph struct {
	// Name is the file base name of the frames.
	Name string

	d         *diagram.Diagram
	prepare   func(ctx context.Context, r diagram.Renderer, d *diagram.Diagram) error
	highlight func(d *diagram.Diagram, vars []int)
	prepared  bool
}

// Diagram returns the underlying diagram.
func (g *Graph) Diagram() *diagram.Diagram { return g.d }

// Run renders one frame per entry of steps and hands it to sink. A nil
// entry renders the base diagram.
func (g *Graph) Run(ctx context.Context, r diagram.Renderer, steps [][]int, sink diagram.Sink, logger *log.Logger) error {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if !g.prepared {
		if g.prepare != nil {
			if err := g.prepare(ctx, r, g.d); err != nil {
				return err
			}
		}
		g.d.Checkpoint()
		g.prepared = true
	}

	logger.Info("Generating graph", "name", g.Name, "steps", len(steps))
	for i, vars := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.d.Reset()
		if vars != nil {
			g.highlight(g.d, vars)
		}
		dot := g.d.DOT()
		svg, err := r.Render(ctx, dot, g.d.Engine, diagram.SVG)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeRender, err, "render %s step %d", g.Name, i+1)
		}
		if err := sink.WriteFrame(ctx, i+1, dot, svg); err != nil {
			return err
		}
	}
	return nil
}

// VarTimeline returns the variables to highlight per step: the items of
// the bag of a solution step, nil for plain visits and joins.
func VarTimeline(doc *document.Document) [][]int {
	out := make([][]int, len(doc.Timeline))
	for i, s := range doc.Timeline {
		if s.Solution == nil || s.IsJoin() {
			continue
		}
		if bag, ok := doc.Bag(s.Bag()); ok {
			out[i] = bag.Items
			if out[i] == nil {
				out[i] = []int{}
			}
		}
	}
	return out
}

// FromDocument returns every auxiliary graph doc asks for, in the order
// primal, dual and incidence graph per incidence block, then the general
// graphs.
func FromDocument(doc *document.Document) []*Graph {
	style := StyleOf(doc)
	var out []*Graph
	for _, inc := range doc.IncidenceGraphs {
		if inc.InferPrimal {
			out = append(out, NewGeneral(InferPrimal(inc), style))
		}
		if inc.InferDual {
			out = append(out, NewGeneral(InferDual(inc), style))
		}
		out = append(out, NewIncidence(inc, doc.TreeDec.NumVars, style))
	}
	for _, gen := range doc.GeneralGraphs {
		out = append(out, NewGeneral(gen, style))
	}
	return out
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func tag(prefix string, n int) string { return prefix + strconv.Itoa(n) }
