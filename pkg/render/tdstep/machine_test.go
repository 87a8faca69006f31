package tdstep

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/render/diagram"
	"github.com/matzehuels/tdvisu/pkg/timeline"
)

type fakeRenderer struct {
	engines []diagram.Engine
	err     error
}

func (r *fakeRenderer) Render(_ context.Context, dot []byte, engine diagram.Engine, format diagram.Format) ([]byte, error) {
	r.engines = append(r.engines, engine)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("<svg/>"), nil
}

type frame struct {
	n     int
	dot   string
	nodes map[string]diagram.Attrs
	edges map[[2]string]diagram.Attrs
}

// recorder snapshots the diagram state at every frame.
type recorder struct {
	m      *Machine
	frames []frame
}

func (r *recorder) WriteFrame(_ context.Context, n int, dot, svg []byte) error {
	f := frame{n: n, dot: string(dot), nodes: map[string]diagram.Attrs{}, edges: map[[2]string]diagram.Attrs{}}
	d := r.m.Diagram()
	for _, id := range d.Nodes() {
		f.nodes[id], _ = d.NodeAttrs(id)
	}
	for _, e := range d.Edges() {
		f.edges[e], _ = d.EdgeAttrs(e[0], e[1])
	}
	r.frames = append(r.frames, f)
	return nil
}

func sol(top string, emphasize bool) timeline.Solution {
	return timeline.Solution{
		Table:     timeline.Table{Columns: []string{"v1", "n"}, Rows: [][]int64{{0, 1}, {1, 2}}},
		Top:       top,
		Bottom:    "sum: 3",
		Emphasize: emphasize,
	}
}

// joinDoc has bags 2 and 3 below bag 1; the solutions of 2 and 3 are
// joined before bag 1 is solved.
func joinDoc() *document.Document {
	doc := document.New()
	doc.TreeDec.LabelDict = []document.Bag{
		{ID: 1, Items: []int{1}, Labels: document.Labels{"[1]"}},
		{ID: 2, Items: []int{1, 2}, Labels: document.Labels{"[1, 2]"}},
		{ID: 3, Items: []int{1, 3}, Labels: document.Labels{"[1, 3]"}},
	}
	doc.TreeDec.EdgeArray = [][2]int{{2, 1}, {3, 1}}
	doc.TreeDec.NumVars = 3
	doc.Timeline = []timeline.Step{
		timeline.Visit(2),
		timeline.Solved(2, sol("sol bag 2", true)),
		timeline.Visit(3),
		timeline.Solved(3, sol("sol bag 3", true)),
		timeline.Joined(2, 3, sol("", true)),
		timeline.Solved(1, sol("sol bag 1", true)),
	}
	return doc
}

func run(t *testing.T, doc *document.Document) []frame {
	t.Helper()
	m, err := New(doc, nil)
	require.NoError(t, err)
	rec := &recorder{m: m}
	require.NoError(t, m.Run(context.Background(), &fakeRenderer{}, rec))
	return rec.frames
}

func TestNewBaseDiagram(t *testing.T) {
	m, err := New(joinDoc(), nil)
	require.NoError(t, err)

	d := m.Diagram()
	assert.Equal(t, []string{"bag 1", "bag 2", "bag 3"}, d.Nodes())
	assert.Equal(t, [][2]string{{"bag 2", "bag 1"}, {"bag 3", "bag 1"}}, d.Edges())
	assert.Equal(t, "BT", d.Graph["rankdir"])
	assert.True(t, d.Directed)
	assert.True(t, d.Strict)

	attrs, _ := d.NodeAttrs("bag 2")
	assert.Contains(t, attrs["label"], `<TD BGCOLOR="white">bag 2</TD>`)
	assert.Contains(t, attrs["label"], "<TD>[1, 2]</TD>")
}

func TestRunOneFramePerStep(t *testing.T) {
	frames := run(t, joinDoc())
	require.Len(t, frames, 6)
	for i, f := range frames {
		assert.Equal(t, 6-i, f.n, "frames are produced backwards")
	}
}

func TestRunLastFrame(t *testing.T) {
	f := run(t, joinDoc())[0]

	assert.Equal(t, "yellow", f.nodes["bag 1"]["fillcolor"])
	assert.Equal(t, EmphasisPenWidth, f.nodes["bag 1"]["penwidth"])
	assert.Equal(t, "yellow", f.nodes["sol1"]["fillcolor"])
	assert.Equal(t, "record", f.nodes["sol1"]["shape"])
	assert.Equal(t, "{sol bag 1|{{v1|0|1}|{n|1|2}}|sum: 3}", f.nodes["sol1"]["label"])

	for _, s := range []string{"sol1", "sol2", "sol3", "solJoin2~3"} {
		assert.NotEqual(t, "invis", f.nodes[s]["style"], "%s visible in the last frame", s)
	}

	// join structure
	assert.Contains(t, f.edges, [2]string{"Join 2~3", "solJoin2~3"})
	assert.Contains(t, f.edges, [2]string{"bag 2", "Join 2~3"})
	assert.Contains(t, f.edges, [2]string{"bag 3", "Join 2~3"})
	assert.Contains(t, f.edges, [2]string{"Join 2~3", "bag 1"})
	assert.Equal(t, diagram.Attrs{"style": "invis", "constraint": "false"}, f.edges[[2]string{"bag 2", "bag 1"}])
}

func TestRunJoinFrame(t *testing.T) {
	f := run(t, joinDoc())[1]
	require.Equal(t, 5, f.n)

	assert.Equal(t, "yellow", f.nodes["Join 2~3"]["fillcolor"])
	assert.Equal(t, "yellow", f.nodes["solJoin2~3"]["fillcolor"])

	// bag 1 lost its emphasis, its solution is hidden
	assert.Equal(t, "white", f.nodes["bag 1"]["fillcolor"])
	assert.Equal(t, BasePenWidth, f.nodes["bag 1"]["penwidth"])
	assert.Equal(t, "invis", f.nodes["sol1"]["style"])
	assert.Equal(t, "invis", f.edges[[2]string{"bag 1", "sol1"}]["style"])
}

func TestRunFirstFrame(t *testing.T) {
	frames := run(t, joinDoc())
	f := frames[len(frames)-1]
	require.Equal(t, 1, f.n)

	assert.Equal(t, "yellow", f.nodes["bag 2"]["fillcolor"])
	for _, s := range []string{"sol1", "sol2", "sol3", "solJoin2~3"} {
		assert.Equal(t, "invis", f.nodes[s]["style"], "%s hidden in the first frame", s)
	}
	for _, b := range []string{"bag 1", "bag 3", "Join 2~3"} {
		assert.Equal(t, "white", f.nodes[b]["fillcolor"], b)
	}
}

func TestRunWithoutEmphasis(t *testing.T) {
	doc := joinDoc()
	doc.Timeline[5] = timeline.Solved(1, sol("sol bag 1", false))
	f := run(t, doc)[0]

	assert.Empty(t, f.nodes["sol1"]["fillcolor"])
	assert.Equal(t, "yellow", f.nodes["bag 1"]["fillcolor"])
}

func TestRunTwiceSameFrames(t *testing.T) {
	m, err := New(joinDoc(), nil)
	require.NoError(t, err)

	first := &recorder{m: m}
	require.NoError(t, m.Run(context.Background(), &fakeRenderer{}, first))
	second := &recorder{m: m}
	require.NoError(t, m.Run(context.Background(), &fakeRenderer{}, second))

	require.Len(t, second.frames, len(first.frames))
	for i := range first.frames {
		assert.Equal(t, first.frames[i].dot, second.frames[i].dot, "frame %d", first.frames[i].n)
	}
}

func TestRunUsesDotEngine(t *testing.T) {
	m, err := New(joinDoc(), nil)
	require.NoError(t, err)
	r := &fakeRenderer{}
	require.NoError(t, m.Run(context.Background(), r, diagram.SinkFunc(func(context.Context, int, []byte, []byte) error { return nil })))
	for _, e := range r.engines {
		assert.Equal(t, diagram.Dot, e)
	}
}

func TestNewRejectsTrailingJoin(t *testing.T) {
	doc := joinDoc()
	doc.Timeline = doc.Timeline[:5]

	_, err := New(doc, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidTimeline))
}

func TestNewRejectsUnknownBag(t *testing.T) {
	doc := joinDoc()
	doc.Timeline = append(doc.Timeline, timeline.Visit(9))

	_, err := New(doc, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidTimeline))
}

func TestRunRenderError(t *testing.T) {
	m, err := New(joinDoc(), nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = m.Run(context.Background(), &fakeRenderer{err: boom}, &recorder{m: m})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeRender))
}

func TestRunSinkError(t *testing.T) {
	m, err := New(joinDoc(), nil)
	require.NoError(t, err)

	boom := errors.New("disk full")
	calls := 0
	err = m.Run(context.Background(), &fakeRenderer{}, diagram.SinkFunc(func(context.Context, int, []byte, []byte) error {
		calls++
		return boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRunCanceled(t *testing.T) {
	m, err := New(joinDoc(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Run(ctx, &fakeRenderer{}, &recorder{m: m})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCustomPrefixes(t *testing.T) {
	doc := joinDoc()
	doc.TreeDec.BagPre = "B%d"
	doc.TreeDec.JoinPre = "J%d+%d"
	doc.TreeDec.SolPre = "S%d"
	doc.TreeDec.SolJoinPre = "SJ%d+%d"
	f := run(t, doc)[1]

	assert.Equal(t, "yellow", f.nodes["J2+3"]["fillcolor"])
	assert.Equal(t, "invis", f.nodes["S1"]["style"])
	assert.True(t, strings.Contains(f.dot, `"B2" -> "J2+3"`))
}
