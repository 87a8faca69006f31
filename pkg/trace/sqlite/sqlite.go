// Package sqlite implements trace.Store on a SQLite file holding the same
// tables a PostgreSQL solver run produces. Timestamps are stored as REAL
// unix seconds.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/tdvisu/pkg/trace"
)

// Store implements trace.Store on SQLite.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite database at dsn. ":memory:" yields a private
// in-memory database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot open database: %w", err)
	}
	// every connection of an in-memory database is a separate database
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: ping: %w", err)
	}
	return New(db), nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Problem reads type and vertex count from the problem table.
func (s *Store) Problem(ctx context.Context, problem int) (trace.Problem, error) {
	p := trace.Problem{ID: problem}
	err := s.db.QueryRowContext(ctx,
		`SELECT type, num_vertices FROM problem WHERE id = ?`, problem,
	).Scan(&p.Type, &p.NumVars)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("trace: problem %d not found", problem)
	}
	if err != nil {
		return p, fmt.Errorf("trace: query problem: %w", err)
	}
	return p, nil
}

// Clauses reads the stored formula.
func (s *Store) Clauses(ctx context.Context, problem int) ([]trace.Clause, error) {
	rows, err := s.rows(ctx, trace.ClauseTable(problem))
	if err != nil {
		return nil, err
	}
	clauses := make([]trace.Clause, 0, len(rows))
	for i, row := range rows {
		c, err := trace.ClauseFromRow(i+1, row)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

// Bags returns all bag IDs in ascending order.
func (s *Store) Bags(ctx context.Context, problem int) ([]int, error) {
	return s.ints(ctx, "bags",
		`SELECT bag FROM `+quote(trace.BagTable(problem))+` GROUP BY bag ORDER BY bag`)
}

// BagNodes returns the nodes of one bag.
func (s *Store) BagNodes(ctx context.Context, problem, bag int) ([]int, error) {
	return s.ints(ctx, "bag nodes",
		`SELECT node FROM `+quote(trace.BagTable(problem))+` WHERE bag = ? ORDER BY node`, bag)
}

// BagStatus returns the start time and solving duration of one bag.
func (s *Store) BagStatus(ctx context.Context, problem, bag int) (trace.Event, error) {
	ev := trace.Event{Bag: bag}
	var start, secs float64
	err := s.db.QueryRowContext(ctx,
		`SELECT start_time, COALESCE(end_time - start_time, 0) FROM `+
			quote(trace.StatusTable(problem))+` WHERE node = ?`, bag,
	).Scan(&start, &secs)
	if errors.Is(err, sql.ErrNoRows) {
		return ev, fmt.Errorf("trace: no status for bag %d", bag)
	}
	if err != nil {
		return ev, fmt.Errorf("trace: query bag status: %w", err)
	}
	ev.Start = unix(start)
	ev.Duration = trace.Seconds(secs)
	return ev, nil
}

// SolveOrder returns the solved bags ordered by start time.
func (s *Store) SolveOrder(ctx context.Context, problem int) ([]trace.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT node, start_time, COALESCE(end_time - start_time, 0) FROM `+
			quote(trace.StatusTable(problem))+` ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("trace: query solve order: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var ev trace.Event
		var start, secs float64
		if err := rows.Scan(&ev.Bag, &start, &secs); err != nil {
			return nil, fmt.Errorf("trace: scan status: %w", err)
		}
		ev.Start = unix(start)
		ev.Duration = trace.Seconds(secs)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows status: %w", err)
	}
	return events, nil
}

// Columns returns the column names of a bag's solution table.
func (s *Store) Columns(ctx context.Context, problem, bag int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM pragma_table_info(?) ORDER BY cid`, trace.NodeTable(problem, bag))
	if err != nil {
		return nil, fmt.Errorf("trace: query columns: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("trace: scan column: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows columns: %w", err)
	}
	return names, nil
}

// Rows returns the solution rows of one bag.
func (s *Store) Rows(ctx context.Context, problem, bag int) ([][]any, error) {
	return s.rows(ctx, trace.NodeTable(problem, bag))
}

// Edges returns the (node, parent) edges of the decomposition.
func (s *Store) Edges(ctx context.Context, problem int) ([][2]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT node, parent FROM `+quote(trace.EdgeTable(problem)))
	if err != nil {
		return nil, fmt.Errorf("trace: query edges: %w", err)
	}
	defer rows.Close()

	edges := [][2]int{}
	for rows.Next() {
		var e [2]int
		if err := rows.Scan(&e[0], &e[1]); err != nil {
			return nil, fmt.Errorf("trace: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows edges: %w", err)
	}
	return edges, nil
}

func (s *Store) rows(ctx context.Context, name string) ([][]any, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM `+quote(name)+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("trace: query %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("trace: columns %s: %w", name, err)
	}
	result := [][]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("trace: scan %s: %w", name, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows %s: %w", name, err)
	}
	return result, nil
}

func (s *Store) ints(ctx context.Context, what, query string, args ...any) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("trace: query %s: %w", what, err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("trace: scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows %s: %w", what, err)
	}
	return out, nil
}

func unix(secs float64) time.Time {
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

var _ trace.Store = (*Store)(nil)
