package treedec

import (
	"slices"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name           string
		bags           []int
		edges          [][2]int
		wantTree       bool
		wantComponents int
		wantUnknown    []int
	}{
		{
			name:           "path",
			bags:           []int{1, 2, 3, 4, 5},
			edges:          [][2]int{{2, 1}, {3, 2}, {4, 2}, {5, 4}},
			wantTree:       true,
			wantComponents: 1,
		},
		{
			name:           "single bag",
			bags:           []int{1},
			wantTree:       true,
			wantComponents: 1,
		},
		{
			name:           "forest",
			bags:           []int{1, 2, 3, 4},
			edges:          [][2]int{{1, 2}, {3, 4}},
			wantComponents: 2,
		},
		{
			name:           "cycle",
			bags:           []int{1, 2, 3},
			edges:          [][2]int{{1, 2}, {2, 3}, {3, 1}},
			wantComponents: 1,
		},
		{
			name:           "duplicate edge is merged",
			bags:           []int{1, 2},
			edges:          [][2]int{{1, 2}, {2, 1}},
			wantTree:       true,
			wantComponents: 1,
		},
		{
			name:           "edge to unknown bag",
			bags:           []int{1, 2},
			edges:          [][2]int{{1, 2}, {2, 7}},
			wantTree:       true,
			wantComponents: 1,
			wantUnknown:    []int{7},
		},
		{
			name:           "self loop",
			bags:           []int{1, 2},
			edges:          [][2]int{{1, 2}, {2, 2}},
			wantComponents: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Check(tt.bags, tt.edges)
			if s.Tree != tt.wantTree {
				t.Errorf("Tree = %v, want %v (%+v)", s.Tree, tt.wantTree, s)
			}
			if s.Components != tt.wantComponents {
				t.Errorf("Components = %d, want %d", s.Components, tt.wantComponents)
			}
			if !slices.Equal(s.Unknown, tt.wantUnknown) {
				t.Errorf("Unknown = %v, want %v", s.Unknown, tt.wantUnknown)
			}
		})
	}
}

func TestAdjacency(t *testing.T) {
	g := Adjacency([][2]int{{2, 1}, {3, 2}})
	if _, ok := g[1][2]; !ok {
		t.Error("missing reversed edge 1->2")
	}
	if got := g.Nodes(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Nodes() = %v", got)
	}
}
