package auxgraph

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tdvisu/pkg/document"
	"github.com/matzehuels/tdvisu/pkg/render/diagram"
	"github.com/matzehuels/tdvisu/pkg/timeline"
)

// fakeRenderer answers plain requests with a circle of the nodes it was
// told about and SVG requests with a stub.
type fakeRenderer struct {
	plainNodes []string
	calls      []diagram.Engine
}

func (r *fakeRenderer) Render(_ context.Context, dot []byte, engine diagram.Engine, format diagram.Format) ([]byte, error) {
	r.calls = append(r.calls, engine)
	if format == diagram.Plain {
		var b strings.Builder
		b.WriteString("graph 1 3 3\n")
		for i, n := range r.plainNodes {
			fmt.Fprintf(&b, "node %s %d.5 %d 0.75 0.5 %s solid ellipse black white\n", n, i, i+1, n)
		}
		b.WriteString("stop\n")
		return []byte(b.String()), nil
	}
	return []byte("<svg/>"), nil
}

type frames struct {
	dots []string
	d    *diagram.Diagram
	node []map[string]diagram.Attrs
}

func (f *frames) WriteFrame(_ context.Context, n int, dot, svg []byte) error {
	f.dots = append(f.dots, string(dot))
	snap := map[string]diagram.Attrs{}
	for _, id := range f.d.Nodes() {
		snap[id], _ = f.d.NodeAttrs(id)
	}
	f.node = append(f.node, snap)
	return nil
}

func style() Style { return StyleOf(document.New()) }

func formula() []document.ClauseEdge {
	return []document.ClauseEdge{
		{ID: 1, List: []int{1, -2}},
		{ID: 2, List: []int{2, 3}},
		{ID: 3, List: []int{4}},
		{ID: 4, List: []int{-1}},
	}
}

func TestVarTimeline(t *testing.T) {
	doc := document.New()
	doc.TreeDec.LabelDict = []document.Bag{
		{ID: 1, Items: []int{1, 2}},
		{ID: 2, Items: []int{2, 3}},
	}
	s := timeline.Solution{Top: "sol"}
	doc.Timeline = []timeline.Step{
		timeline.Visit(2),
		timeline.Solved(2, s),
		timeline.Joined(1, 2, s),
		timeline.Solved(1, s),
	}

	got := VarTimeline(doc)
	assert.Equal(t, [][]int{nil, {2, 3}, nil, {1, 2}}, got)
}

func TestInferPrimal(t *testing.T) {
	inc := document.NewIncidenceGraph(formula())
	inc.VarNameTwo = "v_"

	g := InferPrimal(inc)
	assert.Equal(t, [][2]int{{1, 2}, {2, 3}}, g.Edges)
	assert.Equal(t, []int{4}, g.ExtraNodes)
	assert.Equal(t, "PrimalGraphStep", g.FileBasename)
	assert.Equal(t, "PrimalGraphStep", g.GraphName)
	assert.Equal(t, "v_", g.VarName)
	assert.True(t, g.DoSortNodes)
	assert.True(t, g.DoAdjNodes)
}

func TestInferPrimalDeduplicates(t *testing.T) {
	inc := document.NewIncidenceGraph([]document.ClauseEdge{
		{ID: 1, List: []int{1, 2}},
		{ID: 2, List: []int{-2, -1}},
		{ID: 3, List: []int{3, -3}},
	})
	g := InferPrimal(inc)
	assert.Equal(t, [][2]int{{1, 2}}, g.Edges)
	assert.Empty(t, g.ExtraNodes)
}

func TestInferDual(t *testing.T) {
	inc := document.NewIncidenceGraph(formula())
	inc.VarNameOne = "c_"

	g := InferDual(inc)
	assert.Equal(t, [][2]int{{1, 2}, {1, 4}}, g.Edges)
	assert.Equal(t, []int{3}, g.ExtraNodes)
	assert.Equal(t, "DualGraphStep", g.FileBasename)
	assert.Equal(t, "c_", g.VarName)
}

func TestIncidenceBase(t *testing.T) {
	inc := document.NewIncidenceGraph(formula())
	inc.VarNameOne, inc.VarNameTwo = "c_", "v_"
	g := NewIncidence(inc, 4, style())
	d := g.Diagram()

	assert.Equal(t, "IncidenceGraphStep", g.Name)
	assert.Equal(t, diagram.Dot, d.Engine)
	assert.False(t, d.Directed)

	dot := d.String()
	assert.Contains(t, dot, `subgraph "cluster_clause"`)
	assert.Contains(t, dot, `subgraph "cluster_ivar"`)
	assert.Contains(t, dot, `label="clauses"`)
	assert.Contains(t, dot, `label="variables"`)
	assert.Contains(t, dot, `"c_1" -- "c_2"`)
	assert.Contains(t, dot, `"v_3" -- "v_4"`)

	neg, ok := d.EdgeAttrs("c_1", "v_2")
	require.True(t, ok)
	assert.Equal(t, "odot", neg["arrowtail"])
	assert.Equal(t, "false", neg["constraint"])
	assert.Equal(t, document.DefaultColors[2], neg["color"])

	pos, ok := d.EdgeAttrs("c_2", "v_3")
	require.True(t, ok)
	assert.Empty(t, pos["arrowtail"])

	v1, _ := d.NodeAttrs("v_1")
	assert.Equal(t, document.DefaultColors[1], v1["color"])
}

func TestIncidenceHighlight(t *testing.T) {
	inc := document.NewIncidenceGraph(formula())
	inc.VarNameOne, inc.VarNameTwo = "c_", "v_"
	g := NewIncidence(inc, 4, style())

	rec := &frames{d: g.Diagram()}
	err := g.Run(context.Background(), &fakeRenderer{}, [][]int{{2}, nil}, rec, nil)
	require.NoError(t, err)
	require.Len(t, rec.node, 2)

	step := rec.node[0]
	assert.Equal(t, "solid,filled", step["v_2"]["style"])
	assert.Equal(t, "dotted,filled", step["v_1"]["style"])
	assert.Equal(t, "dotted,filled", step["v_3"]["style"])
	assert.Equal(t, "yellow", step["c_1"]["fillcolor"])
	assert.Equal(t, "yellow", step["c_2"]["fillcolor"])
	assert.Empty(t, step["c_3"]["fillcolor"])
	assert.Empty(t, step["v_4"]["style"])

	assert.Contains(t, rec.dots[0], `"c_3" -- "v_4" [color="#a682ff" constraint="false" style="dotted"]`)
	assert.Contains(t, rec.dots[0], `"c_1" -- "v_1" [color="#b14923" constraint="false" style="solid"]`)

	// the next step starts from the base again
	assert.Empty(t, rec.node[1]["v_2"]["style"])
	assert.NotContains(t, rec.dots[1], "solid")
}

func TestGeneralHighlight(t *testing.T) {
	cfg := document.NewGeneralGraph([][2]int{{1, 2}, {2, 3}, {3, 4}})
	cfg.VarName = "v"
	cfg.DoAdjNodes = true
	g := NewGeneral(cfg, style())

	rec := &frames{d: g.Diagram()}
	r := &fakeRenderer{}
	require.NoError(t, g.Run(context.Background(), r, [][]int{nil, {2, 3}}, rec, nil))

	assert.Equal(t, []diagram.Engine{diagram.Sfdp, diagram.Sfdp}, r.calls)

	base := rec.node[0]
	assert.Empty(t, base["v2"]["fillcolor"])

	step := rec.node[1]
	assert.Equal(t, "yellow", step["v2"]["fillcolor"])
	assert.Equal(t, "filled", step["v3"]["style"])
	assert.Equal(t, "green", step["v1"]["color"])
	assert.Equal(t, "dotted,filled", step["v4"]["style"])

	edge, _ := g.Diagram().EdgeAttrs("v2", "v3")
	assert.Equal(t, "red", edge["color"])
	assert.Equal(t, "2.2", edge["penwidth"])
}

func TestGeneralWithoutAdjacency(t *testing.T) {
	cfg := document.NewGeneralGraph([][2]int{{1, 2}})
	g := NewGeneral(cfg, style())

	rec := &frames{d: g.Diagram()}
	require.NoError(t, g.Run(context.Background(), &fakeRenderer{}, [][]int{{1}}, rec, nil))
	assert.Empty(t, rec.node[0]["2"]["color"])
}

func TestGeneralSortedNodes(t *testing.T) {
	cfg := document.NewGeneralGraph([][2]int{{2, 10}, {1, 2}})
	cfg.VarName = "v"
	cfg.ExtraNodes = []int{5}
	cfg.DoSortNodes = true
	g := NewGeneral(cfg, style())

	r := &fakeRenderer{plainNodes: []string{"v1", "v10", "v2", "v5"}}
	rec := &frames{d: g.Diagram()}
	require.NoError(t, g.Run(context.Background(), r, [][]int{nil, nil}, rec, nil))

	assert.Equal(t, []diagram.Engine{diagram.Circo, diagram.Neato, diagram.Neato}, r.calls)
	assert.Equal(t, []string{"v1", "v10", "v2", "v5"}, g.Diagram().Nodes())
	assert.Equal(t, "0.500000,1.000000!", rec.node[0]["v1"]["pos"])
	assert.Equal(t, "3.500000,4.000000!", rec.node[0]["v5"]["pos"])

	// a second run reuses the pinned layout
	require.NoError(t, g.Run(context.Background(), r, [][]int{nil}, rec, nil))
	assert.Len(t, r.calls, 4)
}

func TestFromDocument(t *testing.T) {
	doc := document.New()
	inc := document.NewIncidenceGraph(formula())
	inc.InferPrimal = true
	inc.InferDual = true
	doc.IncidenceGraphs = []document.IncidenceGraph{inc}
	gen := document.NewGeneralGraph([][2]int{{1, 2}})
	gen.FileBasename = "graph_sorted"
	doc.GeneralGraphs = []document.GeneralGraph{gen}

	var names []string
	for _, g := range FromDocument(doc) {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"PrimalGraphStep", "DualGraphStep", "IncidenceGraphStep", "graph_sorted"}, names)
}

func TestRunCanceled(t *testing.T) {
	g := NewGeneral(document.NewGeneralGraph([][2]int{{1, 2}}), style())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Run(ctx, &fakeRenderer{}, [][]int{nil}, &frames{d: g.Diagram()}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
