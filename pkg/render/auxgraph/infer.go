package auxgraph

import (
	"slices"

	"github.com/matzehuels/tdvisu/pkg/document"
)

// InferPrimal returns the primal graph of the formula: a vertex per
// variable and an edge between variables sharing a clause. Variables only
// occurring alone in unit clauses become extra nodes.
func InferPrimal(inc document.IncidenceGraph) document.GeneralGraph {
	type pair struct{ a, b int }
	seen := make(map[pair]bool)
	var edges [][2]int
	linked := make(map[int]bool)
	for _, c := range inc.Edges {
		vars := absVars(c.List)
		for i := 0; i < len(vars); i++ {
			for j := i + 1; j < len(vars); j++ {
				a, b := vars[i], vars[j]
				if a == b {
					continue
				}
				p := pair{min(a, b), max(a, b)}
				if seen[p] {
					continue
				}
				seen[p] = true
				edges = append(edges, [2]int{a, b})
				linked[a], linked[b] = true, true
			}
		}
	}

	extra := []int{}
	for _, c := range inc.Edges {
		if len(c.List) == 1 {
			v := abs(c.List[0])
			if !linked[v] && !slices.Contains(extra, v) {
				extra = append(extra, v)
			}
		}
	}
	slices.Sort(extra)

	return inferred(edges, extra, inc.PrimalFile, inc.VarNameTwo)
}

// InferDual returns the dual graph of the formula: a vertex per clause and
// an edge between clauses sharing a variable. Clauses sharing no variable
// become extra nodes.
func InferDual(inc document.IncidenceGraph) document.GeneralGraph {
	vars := make([][]int, len(inc.Edges))
	for i, c := range inc.Edges {
		vars[i] = absVars(c.List)
	}

	var edges [][2]int
	linked := make(map[int]bool)
	for i, c := range inc.Edges {
		for j := i + 1; j < len(inc.Edges); j++ {
			other := inc.Edges[j]
			if shares(vars[i], vars[j]) {
				edges = append(edges, [2]int{c.ID, other.ID})
				linked[c.ID], linked[other.ID] = true, true
			}
		}
	}

	extra := []int{}
	for _, c := range inc.Edges {
		if !linked[c.ID] && !slices.Contains(extra, c.ID) {
			extra = append(extra, c.ID)
		}
	}
	slices.Sort(extra)

	return inferred(edges, extra, inc.DualFile, inc.VarNameOne)
}

func inferred(edges [][2]int, extra []int, file, varName string) document.GeneralGraph {
	g := document.NewGeneralGraph(edges)
	g.ExtraNodes = extra
	g.GraphName = file
	g.FileBasename = file
	g.VarName = varName
	g.DoSortNodes = true
	g.DoAdjNodes = true
	return g
}

func absVars(lits []int) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = abs(l)
	}
	return out
}

func shares(a, b []int) bool {
	for _, v := range a {
		if slices.Contains(b, v) {
			return true
		}
	}
	return false
}
