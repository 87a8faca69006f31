package timeline

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Table is a solution table: column names plus integer rows.
type Table struct {
	Columns []string
	Rows    [][]int64
}

// Solution is the payload of a solution-bearing step.
type Solution struct {
	Table     Table
	Top       string
	Bottom    string
	Emphasize bool
}

// Step is one entry of a timeline. Bags holds one bag for a visit and two
// for a join; Solution is nil for plain visits.
type Step struct {
	Bags     []int
	Solution *Solution
}

// Visit returns a plain visit of bag.
func Visit(bag int) Step { return Step{Bags: []int{bag}} }

// Solved returns a visit of bag showing sol.
func Solved(bag int, sol Solution) Step { return Step{Bags: []int{bag}, Solution: &sol} }

// Joined returns a join of bags a and b showing sol.
func Joined(a, b int, sol Solution) Step { return Step{Bags: []int{a, b}, Solution: &sol} }

// Bag returns the bag of a visit, or the first bag of a join.
func (s Step) Bag() int {
	if len(s.Bags) == 0 {
		return 0
	}
	return s.Bags[0]
}

// IsJoin reports whether the step joins two bags.
func (s Step) IsJoin() bool { return len(s.Bags) == 2 }

func (s Step) String() string {
	kind := "visit"
	switch {
	case s.IsJoin():
		kind = "join"
	case s.Solution != nil:
		kind = "solution"
	}
	return fmt.Sprintf("%s %v", kind, s.Bags)
}

// MarshalJSON encodes the table header-first: [[columns...], row, row...].
func (t Table) MarshalJSON() ([]byte, error) {
	cols := t.Columns
	if cols == nil {
		cols = []string{}
	}
	out := make([]any, 0, len(t.Rows)+1)
	out = append(out, cols)
	for _, r := range t.Rows {
		if r == nil {
			r = []int64{}
		}
		out = append(out, r)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the header-first table form. Cells may be numbers,
// booleans or null and are coerced like solver rows.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("solution table: %w", err)
	}
	*t = Table{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw[0], &t.Columns); err != nil {
		return fmt.Errorf("solution table header: %w", err)
	}
	for i, r := range raw[1:] {
		var cells []any
		if err := json.Unmarshal(r, &cells); err != nil {
			return fmt.Errorf("solution table row %d: %w", i+1, err)
		}
		row := make([]int64, len(cells))
		for j, c := range cells {
			v, err := Coerce(c)
			if err != nil {
				return fmt.Errorf("solution table row %d: %w", i+1, err)
			}
			row[j] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return nil
}

// MarshalJSON encodes the solution as [table, top, bottom, emphasize].
func (s Solution) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Table, s.Top, s.Bottom, s.Emphasize})
}

// UnmarshalJSON decodes [table, top?, bottom?, emphasize?].
func (s *Solution) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("solution: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("solution: missing table")
	}
	*s = Solution{}
	targets := []any{&s.Table, &s.Top, &s.Bottom, &s.Emphasize}
	if len(raw) > len(targets) {
		return fmt.Errorf("solution: %d elements, want at most %d", len(raw), len(targets))
	}
	for i, r := range raw {
		if isNull(r) {
			continue
		}
		if err := json.Unmarshal(r, targets[i]); err != nil {
			return fmt.Errorf("solution element %d: %w", i, err)
		}
	}
	return nil
}

// MarshalJSON encodes the step positionally.
func (s Step) MarshalJSON() ([]byte, error) {
	var head any = s.Bags
	if len(s.Bags) == 1 {
		head = s.Bags[0]
	}
	if s.Solution == nil {
		return json.Marshal([]any{head})
	}
	return json.Marshal([]any{head, s.Solution})
}

// UnmarshalJSON decodes [bag], [bag, solution] or [[a, b], solution].
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timeline step: %w", err)
	}
	if len(raw) == 0 || len(raw) > 2 {
		return fmt.Errorf("timeline step: %d elements, want 1 or 2", len(raw))
	}
	*s = Step{}
	head := bytes.TrimSpace(raw[0])
	if len(head) > 0 && head[0] == '[' {
		if err := json.Unmarshal(head, &s.Bags); err != nil {
			return fmt.Errorf("timeline step bags: %w", err)
		}
	} else {
		var bag int
		if err := json.Unmarshal(head, &bag); err != nil {
			return fmt.Errorf("timeline step bag: %w", err)
		}
		s.Bags = []int{bag}
	}
	if len(raw) == 2 && !isNull(raw[1]) {
		s.Solution = &Solution{}
		if err := json.Unmarshal(raw[1], s.Solution); err != nil {
			return err
		}
	}
	return nil
}

func isNull(r json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(r), []byte("null"))
}
