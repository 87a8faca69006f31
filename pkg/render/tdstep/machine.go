// Package tdstep renders the timeline of a tree decomposition as one
// diagram per step.
//
// The [Machine] builds the final picture once: every bag, every solution
// node and every join. It then walks the timeline backwards, hiding the
// solution of the step it leaves and emphasizing the bag of the step it
// enters, and renders a frame after every move. Frame n therefore shows
// the solutions computed up to step n with the bag of step n highlighted.
package tdstep

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/render/diagram"
	"github.com/matzehuels/tdvisu/pkg/timeline"
)

// Pen widths of plain and emphasized nodes.
const (
	BasePenWidth     = "1.0"
	EmphasisPenWidth = "2.5"
)

// Machine replays a document's timeline on its tree decomposition.
type Machine struct {
	doc    *document.Document
	td     document.TreeDec
	steps  []timeline.Step
	d      *diagram.Diagram
	logger *log.Logger
}

// New validates the timeline and builds the base diagram of doc: the bags
// with their labels and the edges of the decomposition. A nil logger
// discards output.
func New(doc *document.Document, logger *log.Logger) (*Machine, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := timeline.Validate(doc.Timeline, doc.Bags()); err != nil {
		return nil, err
	}

	m := &Machine{
		doc:    doc,
		td:     doc.TreeDec,
		steps:  doc.Timeline,
		logger: logger,
	}
	m.d = m.base()
	m.d.Checkpoint()
	return m, nil
}

// Diagram returns the diagram in its current state.
func (m *Machine) Diagram() *diagram.Diagram { return m.d }

func (m *Machine) base() *diagram.Diagram {
	d := diagram.New("Tree-Decomposition", true, diagram.Dot)
	d.Graph["rankdir"] = m.doc.Orientation
	d.Node["shape"] = "box"
	d.Node["fillcolor"] = m.doc.BagColor
	d.Node["style"] = "rounded,filled"
	d.Node["margin"] = "0.11,0.01"

	for _, bag := range m.td.LabelDict {
		name := m.td.BagName(bag.ID)
		d.SetNode(name, diagram.Attrs{"label": diagram.BagLabel(name, bag.Labels)})
	}
	for _, e := range m.td.EdgeArray {
		d.SetEdge(m.td.BagName(e[0]), m.td.BagName(e[1]), nil)
	}
	return d
}

// name returns the diagram node a step is about: the bag of a visit or
// the join node of a join.
func (m *Machine) name(s timeline.Step) string {
	if s.IsJoin() {
		return m.td.JoinName(s.Bags[0], s.Bags[1])
	}
	return m.td.BagName(s.Bag())
}

// solName returns the solution node of a step.
func (m *Machine) solName(s timeline.Step) string {
	if s.IsJoin() {
		return m.td.SolJoinName(s.Bags[0], s.Bags[1])
	}
	return m.td.SolName(s.Bag())
}

func (m *Machine) solutionAttrs(sol *timeline.Solution) diagram.Attrs {
	label := diagram.SolutionLabel(sol.Table.Transpose(), sol.Top, sol.Bottom,
		m.doc.LinesMax, m.doc.ColumnsMax)
	return diagram.Attrs{"label": label, "shape": "record"}
}

// Run renders one frame per step and hands it to sink. Frames are
// produced from the last step to the first. Every run starts from the
// base diagram.
func (m *Machine) Run(ctx context.Context, r diagram.Renderer, sink diagram.Sink) error {
	m.d.Reset()
	m.forward()
	return m.backward(ctx, r, sink)
}

// forward adds the solution nodes and join structure of every step.
func (m *Machine) forward() {
	d := m.d
	for i, s := range m.steps {
		if s.Solution == nil {
			continue
		}
		sol := m.solName(s)
		if !s.IsJoin() {
			d.SetNode(sol, m.solutionAttrs(s.Solution))
			d.SetEdge(m.name(s), sol, nil)
			continue
		}

		join := m.name(s)
		succ := m.name(m.steps[i+1])
		m.logger.Debug("joining", "bags", s.Bags, "into", succ)

		d.SetNode(join, nil)
		d.SetNode(sol, m.solutionAttrs(s.Solution))
		d.SetEdge(join, sol, nil)
		for _, child := range s.Bags {
			d.SetEdge(m.td.BagName(child), succ, diagram.Attrs{"style": "invis", "constraint": "false"})
			d.SetEdge(m.td.BagName(child), join, nil)
		}
		d.SetEdge(join, succ, nil)
	}
}

func (m *Machine) backward(ctx context.Context, r diagram.Renderer, sink diagram.Sink) error {
	d := m.d
	lastSol := ""
	for i := len(m.steps) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := m.steps[i]

		if i < len(m.steps)-1 {
			prev := m.name(m.steps[i+1])
			d.SetNode(prev, diagram.Attrs{"fillcolor": m.doc.BagColor, "penwidth": BasePenWidth})
			if lastSol != "" {
				d.SetNode(lastSol, diagram.Attrs{"style": "invis"})
				d.SetEdge(prev, lastSol, diagram.Attrs{"style": "invis"})
				lastSol = ""
			}
		}

		if s.Solution != nil {
			lastSol = m.solName(s)
			if s.Solution.Emphasize {
				m.emphasize(lastSol)
			}
		}
		m.emphasize(m.name(s))

		m.logger.Debug("rendering step", "step", i+1, "of", len(m.steps), "what", s)
		dot := d.DOT()
		svg, err := r.Render(ctx, dot, d.Engine, diagram.SVG)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeRender, err, "render step %d", i+1)
		}
		if err := sink.WriteFrame(ctx, i+1, dot, svg); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) emphasize(node string) {
	m.d.SetNode(node, diagram.Attrs{
		"fillcolor": m.doc.Emphasis.FirstColor,
		"penwidth":  EmphasisPenWidth,
	})
}
