package diagram

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tdvisu/pkg/cache"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

type countingRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRenderer) Render(_ context.Context, dot []byte, engine Engine, format Format) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := append([]byte(string(engine)+":"+string(format)+":"), dot...)
	return out, nil
}

func TestCachedRendersOnce(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	inner := &countingRenderer{}
	r := NewCached(inner, fc, nil, nil)

	first, err := r.Render(ctx, []byte("digraph {}"), Dot, SVG)
	require.NoError(t, err)
	second, err := r.Render(ctx, []byte("digraph {}"), Dot, SVG)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	_, err = r.Render(ctx, []byte("digraph {}"), Neato, SVG)
	require.NoError(t, err)
	_, err = r.Render(ctx, []byte("digraph { a }"), Dot, SVG)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestCachedNullCache(t *testing.T) {
	inner := &countingRenderer{}
	r := NewCached(inner, cache.NewNullCache(), cache.NewScopedKeyer(nil, "TDStep:"), nil)

	for i := 0; i < 3; i++ {
		_, err := r.Render(context.Background(), []byte("graph {}"), Sfdp, SVG)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("boom")
	inner := &countingRenderer{err: boom}
	r := NewCached(inner, fc, nil, nil)

	_, err = r.Render(ctx, []byte("digraph {}"), Dot, SVG)
	assert.ErrorIs(t, err, boom)

	inner.err = nil
	_, err = r.Render(ctx, []byte("digraph {}"), Dot, SVG)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestRenderUsesDiagramEngine(t *testing.T) {
	inner := &countingRenderer{}
	d := New("G", false, Circo)
	d.SetNode("v1", nil)

	out, err := Render(context.Background(), inner, d, Plain)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("circo:plain:strict graph")), "got %s", out)

	d.Engine = ""
	out, err = Render(context.Background(), inner, d, SVG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("dot:svg:")), "got %s", out)
}

func TestParsePlain(t *testing.T) {
	plain := []byte(`graph 1 2.5 2.5
node v1 1.25 2.25 0.75 0.5 v1 solid ellipse black lightgrey
node "v 2" 2.25 1.25 0.75 0.5 "v 2" solid ellipse black lightgrey
node "say \"x\"" 0 0.5 0.75 0.5 x solid ellipse black lightgrey
edge v1 "v 2" 4 1.5 2 1.7 1.8 1.9 1.6 2 1.5 solid black
stop
`)
	pos, err := ParsePlain(plain)
	require.NoError(t, err)
	assert.Equal(t, map[string]Position{
		"v1":      {X: 1.25, Y: 2.25},
		"v 2":     {X: 2.25, Y: 1.25},
		`say "x"`: {X: 0, Y: 0.5},
	}, pos)
}

func TestParsePlainErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no graph line", "node v1 1 1 1 1 v1 solid ellipse black white\n"},
		{"short node", "graph 1 1 1\nnode v1\n"},
		{"bad number", "graph 1 1 1\nnode v1 x 1 1 1 v1 solid ellipse black white\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlain([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeRender))
		})
	}
}

func TestPin(t *testing.T) {
	assert.Equal(t, "1.250000,-3.000000!", Pin(Position{X: 1.25, Y: -3}))
}

func TestGraphvizRender(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	d := New("G", true, Dot)
	d.SetNode("bag 1", Attrs{"shape": "box"})
	d.SetEdge("bag 2", "bag 1", nil)

	svg, err := Render(context.Background(), NewGraphviz(), d, SVG)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "bag 1")

	plain, err := Render(context.Background(), NewGraphviz(), d, Plain)
	require.NoError(t, err)
	pos, err := ParsePlain(plain)
	require.NoError(t, err)
	assert.Len(t, pos, 2)
}
