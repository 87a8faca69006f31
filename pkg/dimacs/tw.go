package dimacs

import (
	"fmt"
	"io"
	"slices"
	"strconv"
)

// TwGraph is an undirected graph read from the "tw" format used by the
// PACE tree width challenge.
type TwGraph struct {
	NumVertices int
	NumEdges    int
	// Edges in file order, duplicates removed.
	Edges [][2]int
	// Adjacency maps every vertex to its sorted neighbors.
	Adjacency map[int][]int
}

// ReadTw parses a "p tw <vertices> <edges>" file.
// A mismatch between the declared and the read edge count is reported to warn.
func ReadTw(r io.Reader, warn Warner) (*TwGraph, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	h := &twHandler{warn: warn, seen: make(map[[2]int]bool), adj: make(map[int]map[int]bool)}
	if err := Parse(r, h, warn); err != nil {
		return nil, err
	}
	return h.graph, nil
}

type twHandler struct {
	warn  Warner
	graph *TwGraph
	seen  map[[2]int]bool
	adj   map[int]map[int]bool
}

func (h *twHandler) Preamble(p Problem) error {
	if p.Format != "tw" {
		return fmt.Errorf("dimacs: line %d: not a tw file (format %q)", p.Line, p.Format)
	}
	if len(p.Args) < 2 {
		return fmt.Errorf("dimacs: line %d: tw problem line needs vertex and edge counts", p.Line)
	}
	nv, err := strconv.Atoi(p.Args[0])
	if err != nil {
		return fmt.Errorf("dimacs: line %d: vertex count: %w", p.Line, err)
	}
	ne, err := strconv.Atoi(p.Args[1])
	if err != nil {
		return fmt.Errorf("dimacs: line %d: edge count: %w", p.Line, err)
	}
	h.graph = &TwGraph{NumVertices: nv, NumEdges: ne}
	return nil
}

func (h *twHandler) Line(lineno int, fields []string) error {
	if len(fields) != 2 {
		h.warn("expected exactly 2 vertices at line %d, but %d found", lineno, len(fields))
	}
	if len(fields) < 2 {
		return fmt.Errorf("dimacs: line %d: edge needs two vertices", lineno)
	}
	u, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("dimacs: line %d: %w", lineno, err)
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("dimacs: line %d: %w", lineno, err)
	}

	e := [2]int{u, v}
	if !h.seen[e] {
		h.seen[e] = true
		h.graph.Edges = append(h.graph.Edges, e)
	}
	h.link(u, v)
	h.link(v, u)
	return nil
}

func (h *twHandler) link(u, v int) {
	if h.adj[u] == nil {
		h.adj[u] = make(map[int]bool)
	}
	h.adj[u][v] = true
}

func (h *twHandler) Done() error {
	if len(h.graph.Edges) != h.graph.NumEdges {
		h.warn("number of edges mismatch preamble (%d vs %d)", len(h.graph.Edges), h.graph.NumEdges)
	}
	h.graph.Adjacency = make(map[int][]int, len(h.adj))
	for u, nbrs := range h.adj {
		list := make([]int, 0, len(nbrs))
		for v := range nbrs {
			list = append(list, v)
		}
		slices.Sort(list)
		h.graph.Adjacency[u] = list
	}
	return nil
}
