package auxgraph

import (
	"context"
	"slices"
	"strconv"

	"github.com/matzehuels/tdvisu/pkg/document"
	"github.com/matzehuels/tdvisu/pkg/render/diagram"
)

// NewGeneral returns a general graph over the variables of cfg. Per step
// the step's variables get the first color, edges between two of them the
// third color and, with DoAdjNodes, their neighbors the second color.
//
// With DoSortNodes the nodes are first laid out on a circle in name order
// using circo; the final layout by neato keeps those positions. Otherwise
// sfdp places the nodes.
func NewGeneral(cfg document.GeneralGraph, style Style) *Graph {
	d := diagram.New(cfg.GraphName, false, diagram.Sfdp)
	d.Graph["fontsize"] = strconv.Itoa(cfg.FontSize)
	d.Graph["overlap"] = "false"
	d.Graph["outputorder"] = "edgesfirst"
	d.Graph["K"] = "2"
	d.Node["fontcolor"] = style.FontColor
	d.Node["penwidth"] = ftoa(style.PenWidth)
	d.Node["style"] = "filled"
	d.Node["fillcolor"] = "white"

	name := func(v int) string { return tag(cfg.VarName, v) }
	penwidth := ftoa(style.PenWidth)

	prepare := func(ctx context.Context, r diagram.Renderer, d *diagram.Diagram) error {
		if cfg.DoSortNodes {
			if err := pinCircle(ctx, r, d, cfg, name); err != nil {
				return err
			}
		}
		for _, e := range cfg.Edges {
			d.SetEdge(name(e[0]), name(e[1]), nil)
		}
		for _, n := range cfg.ExtraNodes {
			d.SetNode(name(n), nil)
		}
		return nil
	}

	highlight := func(d *diagram.Diagram, vars []int) {
		in := make(map[int]bool, len(vars))
		for _, v := range vars {
			in[v] = true
			d.SetNode(name(v), diagram.Attrs{"fillcolor": cfg.FirstColor, "style": cfg.FirstStyle})
		}
		for _, e := range cfg.Edges {
			if in[e[0]] && in[e[1]] {
				d.SetEdge(name(e[0]), name(e[1]), diagram.Attrs{"color": cfg.ThirdColor, "penwidth": penwidth})
			}
		}
		if !cfg.DoAdjNodes {
			return
		}
		for _, v := range adjacent(cfg.Edges, in) {
			d.SetNode(name(v), diagram.Attrs{"color": cfg.SecondColor, "style": cfg.SecondStyle})
		}
	}

	return &Graph{Name: cfg.FileBasename, d: d, prepare: prepare, highlight: highlight}
}

// adjacent returns the vertices outside in that share an edge with a
// vertex inside, in ascending order.
func adjacent(edges [][2]int, in map[int]bool) []int {
	seen := make(map[int]bool)
	var out []int
	for _, e := range edges {
		a, b := e[0], e[1]
		if a == b || in[a] == in[b] {
			continue
		}
		outside := a
		if in[a] {
			outside = b
		}
		if !seen[outside] {
			seen[outside] = true
			out = append(out, outside)
		}
	}
	slices.Sort(out)
	return out
}

// pinCircle lays the nodes out on a circle in name order and pins them
// there for neato.
func pinCircle(ctx context.Context, r diagram.Renderer, d *diagram.Diagram, cfg document.GeneralGraph, name func(int) string) error {
	set := make(map[string]bool)
	for _, e := range cfg.Edges {
		set[name(e[0])] = true
		set[name(e[1])] = true
	}
	for _, n := range cfg.ExtraNodes {
		set[name(n)] = true
	}
	nodes := make([]string, 0, len(set))
	for n := range set {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)

	ring := diagram.New(d.Name, false, diagram.Circo)
	ring.Graph = d.Graph
	ring.Node = d.Node
	for i, n := range nodes {
		prev := nodes[(i+len(nodes)-1)%len(nodes)]
		ring.SetEdge(prev, n, nil)
	}

	plain, err := diagram.Render(ctx, r, ring, diagram.Plain)
	if err != nil {
		return err
	}
	pos, err := diagram.ParsePlain(plain)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if p, ok := pos[n]; ok {
			d.SetNode(n, diagram.Attrs{"pos": diagram.Pin(p)})
		}
	}
	d.Engine = diagram.Neato
	return nil
}
