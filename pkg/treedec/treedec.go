// Package treedec holds structural helpers for tree decompositions: the
// adjacency used for path interpolation and a shape check of the bag graph.
package treedec

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/tdvisu/pkg/dijkstra"
)

// Adjacency converts the decomposition's edge array into an undirected
// graph for the path finder.
func Adjacency(edges [][2]int) dijkstra.Graph[int] {
	return dijkstra.FromEdges(edges, false)
}

// Shape summarizes the structure of a decomposition.
type Shape struct {
	Bags       int
	Edges      int
	Components int
	SelfLoops  int
	// Tree is true for a single connected component with bags-1 edges.
	Tree bool
	// Unknown lists bag IDs used by edges but missing from the bag list.
	Unknown []int
}

// Check inspects the decomposition formed by bags and edges.
func Check(bags []int, edges [][2]int) Shape {
	g := simple.NewUndirectedGraph()
	known := make(map[int]bool, len(bags))
	for _, b := range bags {
		if g.Node(int64(b)) == nil {
			g.AddNode(simple.Node(b))
		}
		known[b] = true
	}

	s := Shape{Bags: g.Nodes().Len()}
	reported := make(map[int]bool)
	for _, e := range edges {
		for _, b := range e {
			if !known[b] && !reported[b] {
				reported[b] = true
				s.Unknown = append(s.Unknown, b)
			}
			if g.Node(int64(b)) == nil {
				g.AddNode(simple.Node(b))
			}
		}
		if e[0] == e[1] {
			s.SelfLoops++
			continue
		}
		if !g.HasEdgeBetween(int64(e[0]), int64(e[1])) {
			g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
		}
	}

	s.Edges = g.Edges().Len()
	s.Components = len(topo.ConnectedComponents(g))
	n := g.Nodes().Len()
	s.Tree = s.Components == 1 && s.Edges == n-1 && s.SelfLoops == 0
	return s
}
