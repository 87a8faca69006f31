package timeline

import (
	"fmt"
	"math"
)

// Coerce converts a raw solver cell to an integer: booleans become 0 or 1,
// numbers are truncated toward zero and null becomes 0.
func Coerce(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range", x)
		}
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range", x)
		}
		return int64(x), nil
	case float32:
		return truncate(float64(x))
	case float64:
		return truncate(x)
	default:
		return 0, fmt.Errorf("cannot use %T as a table value", v)
	}
}

func truncate(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("value %v out of range", f)
	}
	return int64(f), nil
}

// NewTable builds a solution table from raw rows. Columns that are null in
// every row are dropped; the remaining cells are coerced with [Coerce].
// A table without rows keeps all its columns.
func NewTable(columns []string, rows [][]any) (Table, error) {
	keep := make([]int, 0, len(columns))
	for j := range columns {
		if len(rows) == 0 || !allNull(rows, j) {
			keep = append(keep, j)
		}
	}

	t := Table{Columns: make([]string, 0, len(keep)), Rows: make([][]int64, 0, len(rows))}
	for _, j := range keep {
		t.Columns = append(t.Columns, columns[j])
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return Table{}, fmt.Errorf("row %d has %d cells, want %d", i+1, len(r), len(columns))
		}
		row := make([]int64, len(keep))
		for k, j := range keep {
			v, err := Coerce(r[j])
			if err != nil {
				return Table{}, fmt.Errorf("row %d column %q: %w", i+1, columns[j], err)
			}
			row[k] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func allNull(rows [][]any, col int) bool {
	for _, r := range rows {
		if col < len(r) && r[col] != nil {
			return false
		}
	}
	return true
}

// Transpose returns the table column-major, each column headed by its name.
func (t Table) Transpose() [][]string {
	out := make([][]string, len(t.Columns))
	for j, name := range t.Columns {
		col := make([]string, 0, len(t.Rows)+1)
		col = append(col, name)
		for _, r := range t.Rows {
			if j < len(r) {
				col = append(col, fmt.Sprint(r[j]))
			}
		}
		out[j] = col
	}
	return out
}
