package timeline

import (
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

// Validate checks the structural preconditions replaying a timeline relies
// on: every step names known bags, joins name two bags, carry a solution and
// are followed by another step. A nil bags set skips the membership check.
func Validate(steps []Step, bags map[int]bool) error {
	for i, s := range steps {
		switch len(s.Bags) {
		case 1:
		case 2:
			if s.Solution == nil {
				return apperrors.New(apperrors.ErrCodeInvalidTimeline,
					"join %v at step %d carries no solution", s.Bags, i+1)
			}
			if i == len(steps)-1 {
				return apperrors.New(apperrors.ErrCodeInvalidTimeline,
					"join %v at step %d has no successor", s.Bags, i+1)
			}
		default:
			return apperrors.New(apperrors.ErrCodeInvalidTimeline,
				"step %d names %d bags, want 1 or 2", i+1, len(s.Bags))
		}
		if bags == nil {
			continue
		}
		for _, b := range s.Bags {
			if !bags[b] {
				return apperrors.New(apperrors.ErrCodeInvalidTimeline,
					"step %d references unknown bag %d", i+1, b)
			}
		}
	}
	return nil
}
