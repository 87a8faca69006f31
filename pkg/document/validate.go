package document

import (
	"slices"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/timeline"
)

var orientations = []string{"TB", "BT", "LR", "RL"}

// Validate checks that the document can be rendered: name patterns are
// well formed, bag IDs are unique, edges and timeline steps reference known
// bags, and joins are followed by another step.
func (d *Document) Validate() error {
	td := d.TreeDec
	patterns := []struct {
		name, value string
		verbs       int
	}{
		{"bagpre", td.BagPre, 1},
		{"joinpre", td.JoinPre, 2},
		{"solpre", td.SolPre, 1},
		{"soljoinpre", td.SolJoinPre, 2},
	}
	for _, p := range patterns {
		if p.value == "" && p.name != "bagpre" {
			continue
		}
		if err := apperrors.ValidatePattern(p.value, p.verbs); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "treeDecJson.%s", p.name)
		}
	}

	bags := make(map[int]bool, len(td.LabelDict))
	for _, b := range td.LabelDict {
		if bags[b.ID] {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate bag %d in labeldict", b.ID)
		}
		bags[b.ID] = true
	}
	for _, e := range td.EdgeArray {
		if !bags[e[0]] || !bags[e[1]] {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "edge %v references unknown bag", e)
		}
	}
	if td.NumVars < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "num_vars %d is negative", td.NumVars)
	}

	if err := timeline.Validate(d.Timeline, bags); err != nil {
		return err
	}

	if !slices.Contains(orientations, d.Orientation) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "orientation %q, want one of %v", d.Orientation, orientations)
	}
	if len(d.Colors) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "colors must not be empty")
	}

	names := []string{d.TDFile}
	for _, g := range d.IncidenceGraphs {
		names = append(names, g.IncFile)
		if g.InferPrimal {
			names = append(names, g.PrimalFile)
		}
		if g.InferDual {
			names = append(names, g.DualFile)
		}
		for _, c := range g.Edges {
			for _, lit := range c.List {
				if lit == 0 {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "clause %d contains literal 0", c.ID)
				}
			}
		}
	}
	for _, g := range d.GeneralGraphs {
		names = append(names, g.FileBasename)
	}
	for _, n := range names {
		if err := apperrors.ValidateBaseName(n); err != nil {
			return err
		}
	}

	if j := d.SvgJoin; j != nil {
		if err := apperrors.ValidatePattern(j.Suffix, 1); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "svgJoin.suffix")
		}
		if j.NumImages < 1 {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "svgJoin.num_images must be positive")
		}
	}
	return nil
}
