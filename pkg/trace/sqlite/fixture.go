package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/matzehuels/tdvisu/pkg/trace"
)

// Table is the solution table of one bag.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Fixture is a complete solver run, as written by WriteProblem.
type Fixture struct {
	Problem trace.Problem
	Bags    map[int][]int
	Edges   [][2]int
	Events  []trace.Event
	Tables  map[int]Table
	Clauses []trace.Clause
}

// WriteProblem stores a solver run in the database, creating its tables.
// It is meant for tests and for converting traces between databases.
func (s *Store) WriteProblem(ctx context.Context, f Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("trace: begin: %w", err)
	}
	defer tx.Rollback()

	id := f.Problem.ID
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS problem (id INTEGER PRIMARY KEY, type TEXT NOT NULL, num_vertices INTEGER NOT NULL)`,
		`CREATE TABLE ` + quote(trace.BagTable(id)) + ` (bag INTEGER NOT NULL, node INTEGER NOT NULL)`,
		`CREATE TABLE ` + quote(trace.EdgeTable(id)) + ` (node INTEGER NOT NULL, parent INTEGER NOT NULL)`,
		`CREATE TABLE ` + quote(trace.StatusTable(id)) + ` (node INTEGER NOT NULL, start_time REAL, end_time REAL)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("trace: create tables: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO problem (id, type, num_vertices) VALUES (?, ?, ?)`,
		id, f.Problem.Type, f.Problem.NumVars); err != nil {
		return fmt.Errorf("trace: insert problem: %w", err)
	}
	for bag, nodes := range f.Bags {
		for _, n := range nodes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO `+quote(trace.BagTable(id))+` (bag, node) VALUES (?, ?)`, bag, n); err != nil {
				return fmt.Errorf("trace: insert bag %d: %w", bag, err)
			}
		}
	}
	for _, e := range f.Edges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+quote(trace.EdgeTable(id))+` (node, parent) VALUES (?, ?)`, e[0], e[1]); err != nil {
			return fmt.Errorf("trace: insert edge: %w", err)
		}
	}
	for _, ev := range f.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+quote(trace.StatusTable(id))+` (node, start_time, end_time) VALUES (?, ?, ?)`,
			ev.Bag, seconds(ev.Start), seconds(ev.Start.Add(ev.Duration))); err != nil {
			return fmt.Errorf("trace: insert status %d: %w", ev.Bag, err)
		}
	}
	for bag, t := range f.Tables {
		if err := insertTable(ctx, tx, trace.NodeTable(id, bag), t); err != nil {
			return err
		}
	}
	if f.Clauses != nil {
		if err := insertTable(ctx, tx, trace.ClauseTable(id), clauseTable(f.Problem.NumVars, f.Clauses)); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("trace: commit: %w", err)
	}
	return nil
}

func insertTable(ctx context.Context, tx *sql.Tx, name string, t Table) error {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quote(c)
		marks[i] = "?"
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+quote(name)+` (`+strings.Join(cols, ", ")+`)`); err != nil {
		return fmt.Errorf("trace: create %s: %w", name, err)
	}
	insert := `INSERT INTO ` + quote(name) + ` VALUES (` + strings.Join(marks, ", ") + `)`
	for _, row := range t.Rows {
		if _, err := tx.ExecContext(ctx, insert, row...); err != nil {
			return fmt.Errorf("trace: insert %s: %w", name, err)
		}
	}
	return nil
}

// clauseTable lays clauses out as one nullable boolean column per variable.
func clauseTable(numVars int, clauses []trace.Clause) Table {
	t := Table{Columns: make([]string, numVars)}
	for i := range t.Columns {
		t.Columns[i] = fmt.Sprintf("v%d", i+1)
	}
	for _, c := range clauses {
		row := make([]any, numVars)
		for _, lit := range c.Literals {
			v := lit
			if v < 0 {
				v = -v
			}
			if v >= 1 && v <= numVars {
				row[v-1] = lit > 0
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
