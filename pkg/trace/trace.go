// Package trace reads the solver traces written by dynamic programming
// solvers on tree decompositions.
//
// A solver run for problem N stores its state in tables named after the
// problem:
//
//	p<N>_td_bag          bag, node       nodes (variables) contained in each bag
//	p<N>_td_edge         node, parent    edges of the tree decomposition
//	p<N>_td_node_status  node, start_time, end_time
//	p<N>_td_node_<bag>   solution rows computed for one bag
//	p<N>_sat_clause      one boolean column per variable, one row per clause
//
// plus a shared problem table with the problem type and vertex count.
// [Store] abstracts over the database holding them; see the postgres and
// sqlite subpackages.
package trace

import (
	"context"
	"fmt"
	"time"
)

// Problem describes one solver run.
type Problem struct {
	ID      int
	Type    string // "Sat", "SharpSat" or "VertexCover"
	NumVars int
}

// Event is one bag solved by the solver.
type Event struct {
	Bag      int
	Start    time.Time
	Duration time.Duration
}

// Clause is a CNF clause with signed literals: variable v appears as v or -v.
type Clause struct {
	ID       int
	Literals []int
}

// Store reads the trace of solver runs.
type Store interface {
	// Problem returns type and vertex count of a problem.
	Problem(ctx context.Context, problem int) (Problem, error)
	// Clauses returns the stored formula, numbered from 1.
	Clauses(ctx context.Context, problem int) ([]Clause, error)
	// Bags returns all bag IDs in ascending order.
	Bags(ctx context.Context, problem int) ([]int, error)
	// BagNodes returns the nodes contained in a bag.
	BagNodes(ctx context.Context, problem, bag int) ([]int, error)
	// BagStatus returns when a bag was started and how long solving it took.
	BagStatus(ctx context.Context, problem, bag int) (Event, error)
	// SolveOrder returns all solved bags ordered by start time.
	SolveOrder(ctx context.Context, problem int) ([]Event, error)
	// Columns returns the column names of a bag's solution table.
	Columns(ctx context.Context, problem, bag int) ([]string, error)
	// Rows returns the raw solution rows of a bag. Cells are nil, bool,
	// integer, float or string values.
	Rows(ctx context.Context, problem, bag int) ([][]any, error)
	// Edges returns the (node, parent) edges of the decomposition.
	Edges(ctx context.Context, problem int) ([][2]int, error)
	// Close releases the underlying connection.
	Close() error
}

// Table names for problem N.
func BagTable(problem int) string       { return fmt.Sprintf("p%d_td_bag", problem) }
func EdgeTable(problem int) string      { return fmt.Sprintf("p%d_td_edge", problem) }
func StatusTable(problem int) string    { return fmt.Sprintf("p%d_td_node_status", problem) }
func ClauseTable(problem int) string    { return fmt.Sprintf("p%d_sat_clause", problem) }
func NodeTable(problem, bag int) string { return fmt.Sprintf("p%d_td_node_%d", problem, bag) }

// ClauseFromRow converts one row of the clause table into signed literals.
// Column i (1-based) holds variable i: true means positive, false negated,
// NULL means the variable does not occur.
func ClauseFromRow(id int, row []any) (Clause, error) {
	c := Clause{ID: id, Literals: []int{}}
	for i, cell := range row {
		pos := i + 1
		var set bool
		switch v := cell.(type) {
		case nil:
			continue
		case bool:
			set = v
		case int64:
			set = v != 0
		case int32:
			set = v != 0
		case int:
			set = v != 0
		default:
			return Clause{}, fmt.Errorf("clause %d: column %d: unexpected %T", id, pos, cell)
		}
		if set {
			c.Literals = append(c.Literals, pos)
		} else {
			c.Literals = append(c.Literals, -pos)
		}
	}
	return c, nil
}

// Seconds converts fractional seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
