package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/timeline"
	"github.com/matzehuels/tdvisu/pkg/trace"
	"github.com/matzehuels/tdvisu/pkg/trace/sqlite"
)

// execute runs the root command with args and returns what it wrote to
// its output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeTrace stores a two-bag #SAT run as problem 4 in a SQLite file.
func writeTrace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.db")
	ctx := context.Background()
	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.WriteProblem(ctx, sqlite.Fixture{
		Problem: trace.Problem{ID: 4, Type: "SharpSat", NumVars: 3},
		Bags:    map[int][]int{1: {1, 2}, 2: {2, 3}},
		Edges:   [][2]int{{2, 1}},
		Events: []trace.Event{
			{Bag: 2, Start: t0, Duration: time.Second},
			{Bag: 1, Start: t0.Add(2 * time.Second), Duration: time.Second},
		},
		Tables: map[int]sqlite.Table{
			2: {Columns: []string{"v2", "v3", "model_count"}, Rows: [][]any{{1, 1, 2}}},
			1: {Columns: []string{"v1", "v2", "model_count"}, Rows: [][]any{{0, 1, 2}}},
		},
		Clauses: []trace.Clause{{ID: 1, Literals: []int{1, -2}}, {ID: 2, Literals: []int{2, 3}}},
	}))
	return path
}

func TestConstructCommand(t *testing.T) {
	db := writeTrace(t)
	dir := t.TempDir()

	_, err := execute(t, "construct", "4", "--sqlite", db, "--outfile", filepath.Join(dir, "run%d.json"))
	require.NoError(t, err)

	doc, err := document.ImportJSON(filepath.Join(dir, "run4.json"))
	require.NoError(t, err)
	assert.Len(t, doc.TreeDec.LabelDict, 2)
	assert.Len(t, doc.Timeline, 4)
	assert.Len(t, doc.IncidenceGraphs, 1)
}

func TestConstructCommandStdout(t *testing.T) {
	db := writeTrace(t)

	out, err := execute(t, "construct", "4", "--sqlite", db, "-o", "-", "--inter-nodes")
	require.NoError(t, err)

	doc, err := document.ReadJSON(strings.NewReader(out))
	require.NoError(t, err)
	// adjacent bags leave nothing to interpolate
	require.Len(t, doc.Timeline, 4)
	assert.Equal(t, 2, doc.Timeline[0].Bag())
}

func TestConstructCommandErrors(t *testing.T) {
	_, err := execute(t, "construct", "four")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput), "got %v", err)

	_, err = execute(t, "construct", "9", "--sqlite", writeTrace(t), "-o", "-")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStore), "got %v", err)
}

func TestOutfileName(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{defaultOutfile, "dbjson7.json"},
		{"run-%s.json", "run-7.json"},
		{"doc.json", "doc.json"},
		{"-", "-"},
		{"%d-%d.json", "%d-%d.json"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, outfileName(tt.pattern, 7))
		})
	}
}

func TestConfigFlag(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "tdvisu.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[log]\nlevel = \"loud\"\n"), 0o644))

	_, err := execute(t, "--config", cfg, "cache", "path")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidConfig), "got %v", err)
}

func TestSetupAssignsRunID(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--loglevel", "warn", "cache", "path"})
	require.NoError(t, root.Execute())

	assert.Len(t, c.RunID, 36)
	assert.Equal(t, log.WarnLevel, c.Logger.GetLevel())
}

func TestCachePath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, appName)+"\n", out)
}

func TestVisualizeWatchNeedsFile(t *testing.T) {
	_, err := execute(t, "visualize", "-", "out", "--watch")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput), "got %v", err)
}

func TestParseAnchors(t *testing.T) {
	anchors, err := parseAnchors([]string{"top", "none", "0.25"})
	require.NoError(t, err)
	require.Len(t, anchors, 3)
	assert.True(t, anchors[0].Set)
	assert.False(t, anchors[1].Set)
	assert.Equal(t, 0.25, anchors[2].Value)

	_, err = parseAnchors([]string{"middle"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
}

// starDoc is the decomposition 1-2, 2-3, 2-4, 4-5.
func starDoc() *document.Document {
	doc := document.New()
	for id := 1; id <= 5; id++ {
		doc.TreeDec.LabelDict = append(doc.TreeDec.LabelDict, document.Bag{ID: id, Items: []int{id}})
	}
	doc.TreeDec.EdgeArray = [][2]int{{1, 2}, {2, 3}, {2, 4}, {4, 5}}
	return doc
}

func TestShortestPath(t *testing.T) {
	dist, route, err := shortestPath(starDoc(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, dist)
	assert.Equal(t, []int{1, 2, 4, 5}, route)
	assert.Equal(t, "1 → 2 → 4 → 5", formatRoute(route))

	_, _, err = shortestPath(starDoc(), 1, 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput), "got %v", err)

	doc := starDoc()
	doc.TreeDec.EdgeArray = append(doc.TreeDec.EdgeArray, [2]int{6, 7})
	_, _, err = shortestPath(doc, 1, 7)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNoPath), "got %v", err)
}

func TestPathCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, document.ExportJSON(starDoc(), file, false))

	_, err := execute(t, "path", file, "3", "5")
	require.NoError(t, err)

	_, err = execute(t, "path", file, "x", "5")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput), "got %v", err)
}

func timelineDoc() *document.Document {
	doc := starDoc()
	sol := timeline.Solution{
		Table:     timeline.Table{Columns: []string{"v2", "model_count"}, Rows: [][]int64{{1, 4}}},
		Top:       "sol bag 2",
		Bottom:    "sum: 4",
		Emphasize: true,
	}
	doc.Timeline = []timeline.Step{
		timeline.Visit(3),
		timeline.Visit(2),
		timeline.Solved(2, sol),
	}
	return doc
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTimelineModelNavigation(t *testing.T) {
	var m tea.Model = NewTimelineModel(timelineDoc())

	m, _ = m.Update(key("k"))
	assert.Equal(t, 0, m.(TimelineModel).Cursor, "cursor stays at the first step")

	m, _ = m.Update(key("j"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(key("j"))
	assert.Equal(t, 2, m.(TimelineModel).Cursor, "cursor stops at the last step")

	m, _ = m.Update(key("g"))
	assert.Equal(t, 0, m.(TimelineModel).Cursor)
	m, _ = m.Update(key("G"))
	assert.Equal(t, 2, m.(TimelineModel).Cursor)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTimelineModelScroll(t *testing.T) {
	m := NewTimelineModel(timelineDoc())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	m = next.(TimelineModel)
	assert.Equal(t, 5, m.Height, "height is clamped")

	m.Height = 1
	next, _ = m.Update(key("G"))
	m = next.(TimelineModel)
	assert.Equal(t, 2, m.Offset)
}

func TestTimelineModelView(t *testing.T) {
	var m tea.Model = NewTimelineModel(timelineDoc())
	view := m.View()
	assert.Contains(t, view, "bag 3")
	assert.Contains(t, view, "[1/3]")

	m, _ = m.Update(key("G"))
	view = m.View()
	assert.Contains(t, view, "sol bag 2")
	assert.Contains(t, view, "model_count")
	assert.Contains(t, view, "sum: 4")
	assert.Contains(t, view, "[3/3]")
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "tdvisu")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
