package dijkstra

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors returned by Bidirectional.
var (
	// ErrUnknownEndpoint indicates that the source or target is not a node of the graph.
	ErrUnknownEndpoint = errors.New("dijkstra: unknown endpoint")

	// ErrContradictoryPath indicates that a settled distance would be improved,
	// which only happens with negative edge weights.
	ErrContradictoryPath = errors.New("dijkstra: contradictory paths found, negative weights?")

	// ErrNoPath indicates that source and target are not connected.
	ErrNoPath = errors.New("dijkstra: no path")
)

type direction int

const (
	forward direction = iota
	backward
)

func (d direction) other() direction { return 1 - d }

// frontier is the state of the search growing from one endpoint.
type frontier[N cmp.Ordered] struct {
	settled map[N]float64 // final distances
	seen    map[N]float64 // best tentative distances
	paths   map[N][]N     // path from the endpoint to each seen node
	queue   queue[N]
}

func newFrontier[N cmp.Ordered](start N) *frontier[N] {
	f := &frontier[N]{
		settled: make(map[N]float64),
		seen:    map[N]float64{start: 0},
		paths:   map[N][]N{start: {start}},
	}
	f.queue.push(item[N]{dist: 0, node: start})
	return f
}

// search holds the mutable state of one Bidirectional call.
type search[N cmp.Ordered] struct {
	g      Graph[N]
	weight WeightFunc[N]
	fronts [2]*frontier[N]
	seq    int

	bestDist float64
	bestPath []N
}

// Bidirectional returns the length and the node sequence of a shortest path
// from source to target. A nil weight reads the "weight" attribute of each
// edge, defaulting to 1.
//
// The backward search traverses edges against their direction; it looks up
// the attributes of the forward edge w→v (falling back to v→w) and calls
// weight(w, v, attrs) so that weight functions always see edges in
// source-to-target orientation.
func Bidirectional[N cmp.Ordered](g Graph[N], source, target N, weight WeightFunc[N]) (float64, []N, error) {
	if _, ok := g[source]; !ok {
		return 0, nil, fmt.Errorf("%w: source %v", ErrUnknownEndpoint, source)
	}
	if _, ok := g[target]; !ok {
		return 0, nil, fmt.Errorf("%w: target %v", ErrUnknownEndpoint, target)
	}
	if source == target {
		return 0, []N{source}, nil
	}
	if weight == nil {
		weight = AttrWeight[N](WeightAttr)
	}

	s := &search[N]{
		g:      g,
		weight: weight,
		fronts: [2]*frontier[N]{newFrontier(source), newFrontier(target)},
	}
	return s.run(source, target)
}

func (s *search[N]) run(source, target N) (float64, []N, error) {
	dir := backward
	for s.fronts[forward].queue.Len() > 0 && s.fronts[backward].queue.Len() > 0 {
		dir = dir.other()
		f := s.fronts[dir]

		it := f.queue.pop()
		v := it.node
		if _, done := f.settled[v]; done {
			continue
		}
		f.settled[v] = it.dist

		if _, done := s.fronts[dir.other()].settled[v]; done {
			return s.bestDist, s.bestPath, nil
		}

		if err := s.relax(dir, v, it.dist); err != nil {
			return 0, nil, err
		}
	}
	return 0, nil, fmt.Errorf("%w: between %v and %v", ErrNoPath, source, target)
}

// relax updates the tentative distances of all neighbors of v in direction dir.
func (s *search[N]) relax(dir direction, v N, dist float64) error {
	f := s.fronts[dir]
	o := s.fronts[dir.other()]

	for _, w := range s.g.neighbors(v) {
		var cost float64
		if dir == forward {
			cost = s.weight(v, w, s.g[v][w])
		} else {
			attrs, ok := s.g[w][v]
			if !ok {
				attrs = s.g[v][w]
			}
			cost = s.weight(w, v, attrs)
		}
		length := dist + cost

		if final, done := f.settled[w]; done {
			if length < final {
				return fmt.Errorf("%w: %v improves to %v after settling at %v", ErrContradictoryPath, w, length, final)
			}
			continue
		}

		if prev, ok := f.seen[w]; ok && length >= prev {
			continue
		}
		f.seen[w] = length
		s.seq++
		f.queue.push(item[N]{dist: length, seq: s.seq, node: w})
		f.paths[w] = append(slices.Clip(f.paths[v]), w)

		if other, ok := o.seen[w]; ok {
			total := length + other
			if s.bestPath == nil || total < s.bestDist {
				s.bestDist = total
				s.bestPath = s.join(w)
			}
		}
	}
	return nil
}

// join combines the forward path to w with the reversed backward path from w.
func (s *search[N]) join(w N) []N {
	fwd := s.fronts[forward].paths[w]
	bwd := s.fronts[backward].paths[w]

	path := make([]N, 0, len(fwd)+len(bwd)-1)
	path = append(path, fwd...)
	for i := len(bwd) - 2; i >= 0; i-- {
		path = append(path, bwd[i])
	}
	return path
}
