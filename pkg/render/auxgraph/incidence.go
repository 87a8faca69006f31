package auxgraph

import (
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/tdvisu/pkg/document"
	"github.com/matzehuels/tdvisu/pkg/render/diagram"
)

// negTail marks the clause end of an edge to a negated literal.
const negTail = "odot"

// NewIncidence returns the incidence graph of a CNF formula: clauses in
// one column, variables 1..numVars in another, an edge per literal colored
// by its variable. Per step the clauses touching the step's variables and
// all variables of those clauses are emphasized; edges of other clauses
// are dotted.
func NewIncidence(cfg document.IncidenceGraph, numVars int, style Style) *Graph {
	clause := func(c int) string { return tag(cfg.VarNameOne, c) }
	variable := func(v int) string { return tag(cfg.VarNameTwo, v) }
	penwidth := ftoa(style.PenWidth)
	if cfg.PenWidth > 0 {
		penwidth = ftoa(cfg.PenWidth)
	}

	d := diagram.New(cfg.IncFile, false, diagram.Dot)
	d.Graph["splines"] = "false"
	d.Graph["ranksep"] = "0.2"
	d.Graph["nodesep"] = ftoa(cfg.ColumnDistance)
	d.Graph["fontsize"] = strconv.Itoa(cfg.FontSize)
	d.Graph["compound"] = "true"
	d.Edge["penwidth"] = penwidth
	d.Edge["dir"] = "back"
	d.Edge["arrowtail"] = "none"

	clauses := d.Subgraph("cluster_clause")
	clauses.Graph["label"] = cfg.SubgraphNameOne
	clauses.Edge["style"] = "invis"
	clauses.Node["style"] = "rounded,filled"
	clauses.Node["fillcolor"] = style.BagColor
	for i, c := range cfg.Edges {
		clauses.SetNode(clause(c.ID), nil)
		if i > 0 {
			clauses.SetEdge(clause(cfg.Edges[i-1].ID), clause(c.ID), nil)
		}
	}

	vars := d.Subgraph("cluster_ivar")
	vars.Graph["label"] = cfg.SubgraphNameTwo
	vars.Edge["style"] = "invis"
	vars.Node["shape"] = cfg.SecondShape
	vars.Node["fontcolor"] = "black"
	vars.Node["penwidth"] = penwidth
	vars.Node["style"] = "dotted"
	for v := 1; v <= numVars; v++ {
		vars.SetNode(variable(v), diagram.Attrs{"label": variable(v), "color": style.color(v)})
		if v > 1 {
			vars.SetEdge(variable(v-1), variable(v), nil)
		}
	}

	literal := func(c, lit int, extra diagram.Attrs) {
		attrs := diagram.Attrs{"constraint": "false", "color": style.color(lit)}
		if lit < 0 {
			attrs["arrowtail"] = negTail
		}
		maps.Copy(attrs, extra)
		d.SetEdge(clause(c), variable(abs(lit)), attrs)
	}
	for _, c := range cfg.Edges {
		for _, lit := range c.List {
			literal(c.ID, lit, nil)
		}
	}

	emphasis := style.Emphasis.FirstColor
	highlight := func(d *diagram.Diagram, in []int) {
		step := make(map[int]bool, len(in))
		for _, v := range in {
			step[v] = true
		}

		touched := make(map[int]bool)
		for _, c := range cfg.Edges {
			for _, lit := range c.List {
				if step[abs(lit)] {
					touched[c.ID] = true
				}
			}
		}
		involved := make(map[int]bool)
		for _, c := range cfg.Edges {
			if !touched[c.ID] {
				continue
			}
			for _, lit := range c.List {
				involved[abs(lit)] = true
			}
		}

		for _, v := range sortedKeys(involved) {
			st := "dotted,filled"
			if step[v] {
				st = "solid,filled"
			}
			d.SetNode(variable(v), diagram.Attrs{"label": variable(v), "style": st, "fillcolor": emphasis})
		}
		for _, c := range sortedKeys(touched) {
			d.SetNode(clause(c), diagram.Attrs{"label": clause(c), "fillcolor": emphasis})
		}
		for _, c := range cfg.Edges {
			st := "dotted"
			if touched[c.ID] {
				st = "solid"
			}
			for _, lit := range c.List {
				literal(c.ID, lit, diagram.Attrs{"style": st})
			}
		}
	}

	return &Graph{Name: cfg.IncFile, d: d, highlight: highlight}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
