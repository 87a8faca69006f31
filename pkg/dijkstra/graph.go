package dijkstra

import (
	"cmp"
	"maps"
	"slices"
)

// WeightAttr is the edge attribute read by the default weight function.
const WeightAttr = "weight"

// Attrs holds the attributes of one edge.
type Attrs map[string]float64

// Graph is an adjacency mapping from node to neighbor to edge attributes.
// An undirected graph stores every edge in both directions.
type Graph[N cmp.Ordered] map[N]map[N]Attrs

// WeightFunc returns the cost of traversing the edge u→v with the given attributes.
type WeightFunc[N cmp.Ordered] func(u, v N, attrs Attrs) float64

// AttrWeight returns a WeightFunc reading the named attribute.
// Edges without the attribute cost 1.
func AttrWeight[N cmp.Ordered](key string) WeightFunc[N] {
	return func(_, _ N, attrs Attrs) float64 {
		if w, ok := attrs[key]; ok {
			return w
		}
		return 1
	}
}

// FromEdges builds a graph from an edge list. Unless directed is set, the
// reversed edge is added as well. Edges start without attributes.
func FromEdges[N cmp.Ordered](edges [][2]N, directed bool) Graph[N] {
	g := make(Graph[N])
	for _, e := range edges {
		g.AddEdge(e[0], e[1], nil)
		if !directed {
			g.AddEdge(e[1], e[0], nil)
		}
	}
	return g
}

// AddEdge adds or replaces the directed edge u→v. Both endpoints become
// nodes of the graph.
func (g Graph[N]) AddEdge(u, v N, attrs Attrs) {
	if attrs == nil {
		attrs = Attrs{}
	}
	if g[u] == nil {
		g[u] = make(map[N]Attrs)
	}
	if g[v] == nil {
		g[v] = make(map[N]Attrs)
	}
	g[u][v] = attrs
}

// Nodes returns all nodes in ascending order.
func (g Graph[N]) Nodes() []N {
	return slices.Sorted(maps.Keys(g))
}

// neighbors returns the neighbors of v in ascending order so that ties
// between equally short paths resolve the same way on every run.
func (g Graph[N]) neighbors(v N) []N {
	return slices.Sorted(maps.Keys(g[v]))
}
