package dijkstra

import (
	"errors"
	"slices"
	"testing"
)

// spanning is the tree decomposition shape used throughout: 1-2, 2-3, 2-4, 4-5.
func spanning() Graph[int] {
	return FromEdges([][2]int{{1, 2}, {2, 3}, {2, 4}, {4, 5}}, false)
}

func TestFromEdges(t *testing.T) {
	g := FromEdges([][2]int{{2, 1}, {3, 2}}, false)
	if len(g) != 3 {
		t.Fatalf("len(g) = %d, want 3", len(g))
	}
	for _, e := range [][2]int{{2, 1}, {1, 2}, {3, 2}, {2, 3}} {
		if _, ok := g[e[0]][e[1]]; !ok {
			t.Errorf("missing edge %d->%d", e[0], e[1])
		}
	}

	d := FromEdges([][2]int{{2, 1}}, true)
	if _, ok := d[1][2]; ok {
		t.Error("directed graph should not contain the reversed edge")
	}
	if _, ok := d[1]; !ok {
		t.Error("target of a directed edge should still be a node")
	}
}

func TestBidirectional(t *testing.T) {
	tests := []struct {
		name     string
		source   int
		target   int
		wantDist float64
		wantPath []int
	}{
		{"sibling via parent", 1, 4, 2, []int{1, 2, 4}},
		{"reverse direction", 4, 1, 2, []int{4, 2, 1}},
		{"leaf to leaf", 3, 5, 3, []int{3, 2, 4, 5}},
		{"adjacent", 2, 3, 1, []int{2, 3}},
		{"same node", 5, 5, 0, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, path, err := Bidirectional(spanning(), tt.source, tt.target, nil)
			if err != nil {
				t.Fatalf("Bidirectional() error: %v", err)
			}
			if dist != tt.wantDist {
				t.Errorf("dist = %v, want %v", dist, tt.wantDist)
			}
			if !slices.Equal(path, tt.wantPath) {
				t.Errorf("path = %v, want %v", path, tt.wantPath)
			}
		})
	}
}

func TestBidirectionalWeighted(t *testing.T) {
	g := make(Graph[string])
	for _, e := range []struct {
		u, v string
		w    float64
	}{
		{"a", "b", 1}, {"b", "c", 1}, {"c", "d", 1},
		{"a", "d", 5},
	} {
		g.AddEdge(e.u, e.v, Attrs{WeightAttr: e.w})
		g.AddEdge(e.v, e.u, Attrs{WeightAttr: e.w})
	}

	dist, path, err := Bidirectional(g, "a", "d", nil)
	if err != nil {
		t.Fatalf("Bidirectional() error: %v", err)
	}
	if dist != 3 {
		t.Errorf("dist = %v, want 3", dist)
	}
	if !slices.Equal(path, []string{"a", "b", "c", "d"}) {
		t.Errorf("path = %v", path)
	}
}

func TestBidirectionalBackwardOrientation(t *testing.T) {
	// Directed weights that differ per orientation: the backward search must
	// price the edge as it would be traversed from source to target.
	g := make(Graph[int])
	g.AddEdge(1, 2, Attrs{WeightAttr: 1})
	g.AddEdge(2, 1, Attrs{WeightAttr: 100})
	g.AddEdge(2, 3, Attrs{WeightAttr: 1})
	g.AddEdge(3, 2, Attrs{WeightAttr: 100})

	var calls [][2]int
	weight := func(u, v int, attrs Attrs) float64 {
		calls = append(calls, [2]int{u, v})
		return attrs[WeightAttr]
	}

	dist, path, err := Bidirectional(g, 1, 3, weight)
	if err != nil {
		t.Fatalf("Bidirectional() error: %v", err)
	}
	if dist != 2 {
		t.Errorf("dist = %v, want 2", dist)
	}
	if !slices.Equal(path, []int{1, 2, 3}) {
		t.Errorf("path = %v, want [1 2 3]", path)
	}
	if !slices.Contains(calls, [2]int{2, 3}) {
		t.Errorf("backward search should call weight(2, 3, ...), calls = %v", calls)
	}
}

func TestBidirectionalErrors(t *testing.T) {
	negative := func(_, _ int, _ Attrs) float64 { return -1 }

	tests := []struct {
		name    string
		g       Graph[int]
		source  int
		target  int
		weight  WeightFunc[int]
		wantErr error
	}{
		{"unknown source", spanning(), 9, 1, nil, ErrUnknownEndpoint},
		{"unknown target", spanning(), 1, 9, nil, ErrUnknownEndpoint},
		{"unknown source equals target", spanning(), 9, 9, nil, ErrUnknownEndpoint},
		{"disconnected", FromEdges([][2]int{{1, 2}, {3, 4}}, false), 1, 3, nil, ErrNoPath},
		{"negative weights", spanning(), 1, 4, negative, ErrContradictoryPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, path, err := Bidirectional(tt.g, tt.source, tt.target, tt.weight)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if path != nil {
				t.Errorf("path = %v, want nil", path)
			}
		})
	}
}

func TestBidirectionalDeterministic(t *testing.T) {
	// A square has two shortest paths between opposite corners.
	g := FromEdges([][2]int{{1, 2}, {2, 4}, {1, 3}, {3, 4}}, false)

	_, first, err := Bidirectional(g, 1, 4, nil)
	if err != nil {
		t.Fatalf("Bidirectional() error: %v", err)
	}
	for range 20 {
		_, path, _ := Bidirectional(g, 1, 4, nil)
		if !slices.Equal(path, first) {
			t.Fatalf("path changed between runs: %v vs %v", first, path)
		}
	}
}

func TestAttrWeight(t *testing.T) {
	w := AttrWeight[int]("cost")
	if got := w(1, 2, Attrs{"cost": 4.5}); got != 4.5 {
		t.Errorf("AttrWeight() = %v, want 4.5", got)
	}
	if got := w(1, 2, Attrs{"weight": 3}); got != 1 {
		t.Errorf("AttrWeight() missing attribute = %v, want 1", got)
	}
	if got := w(1, 2, nil); got != 1 {
		t.Errorf("AttrWeight() nil attrs = %v, want 1", got)
	}
}

func TestNodes(t *testing.T) {
	if got := spanning().Nodes(); !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("Nodes() = %v", got)
	}
}
