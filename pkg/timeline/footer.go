package timeline

import (
	"fmt"
	"strings"
)

// ProblemKind is the closed set of problems a solver trace can belong to.
type ProblemKind int

const (
	Sat ProblemKind = iota
	SharpSat
	VertexCover
)

var kindNames = [...]string{
	Sat:         "Sat",
	SharpSat:    "SharpSat",
	VertexCover: "VertexCover",
}

func (k ProblemKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ProblemKind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseProblemKind maps a problem type as stored by the solver to its kind.
// Matching ignores case; "MinVC" is accepted for vertex cover.
func ParseProblemKind(s string) (ProblemKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sat":
		return Sat, nil
	case "sharpsat", "#sat":
		return SharpSat, nil
	case "vertexcover", "minvc", "vc":
		return VertexCover, nil
	}
	return 0, fmt.Errorf("unknown problem type %q", s)
}

// FooterFunc computes the bottom label of a solution table.
type FooterFunc func(Table) string

// Footer returns the footer policy of the problem kind.
func (k ProblemKind) Footer() FooterFunc {
	switch k {
	case SharpSat:
		return sumFooter
	case VertexCover:
		return minFooter
	default:
		return emptyFooter
	}
}

// HasClauses reports whether traces of this kind store a CNF formula.
func (k ProblemKind) HasClauses() bool { return k == Sat || k == SharpSat }

func emptyFooter(Table) string { return "" }

func sumFooter(t Table) string {
	var sum int64
	for _, r := range t.Rows {
		if len(r) > 0 {
			sum += r[len(r)-1]
		}
	}
	return fmt.Sprintf("sum: %d", sum)
}

func minFooter(t Table) string {
	var best int64
	found := false
	for _, r := range t.Rows {
		if len(r) == 0 {
			continue
		}
		if v := r[len(r)-1]; !found || v < best {
			best, found = v, true
		}
	}
	if !found {
		return ""
	}
	return fmt.Sprintf("min-size: %d", best)
}
