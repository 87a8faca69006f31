// Package postgres implements trace.Store on the PostgreSQL database a
// dp_on_dbs style solver writes its tables to.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matzehuels/tdvisu/pkg/trace"
)

// Store implements trace.Store using PostgreSQL via pgx.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Open connects to the database at dsn and checks the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("trace: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("trace: ping: %w", err)
	}
	return New(pool), nil
}

// Version returns the server version string.
func (s *Store) Version(ctx context.Context) (string, error) {
	var v string
	if err := s.db.QueryRow(ctx, `SELECT version()`).Scan(&v); err != nil {
		return "", fmt.Errorf("trace: version: %w", err)
	}
	return v, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func table(name string) string {
	return pgx.Identifier{"public", name}.Sanitize()
}

// Problem reads type and vertex count from public.problem.
func (s *Store) Problem(ctx context.Context, problem int) (trace.Problem, error) {
	p := trace.Problem{ID: problem}
	err := s.db.QueryRow(ctx,
		`SELECT type, num_vertices FROM public.problem WHERE id = $1`, problem,
	).Scan(&p.Type, &p.NumVars)
	if err != nil {
		if isNoRows(err) {
			return p, fmt.Errorf("trace: problem %d not found", problem)
		}
		return p, fmt.Errorf("trace: query problem: %w", err)
	}
	return p, nil
}

// Clauses reads the stored formula. The solver only writes it when run with
// --store-formula.
func (s *Store) Clauses(ctx context.Context, problem int) ([]trace.Clause, error) {
	rows, err := s.db.Query(ctx, `SELECT * FROM `+table(trace.ClauseTable(problem)))
	if err != nil {
		return nil, fmt.Errorf("trace: query clauses (was the solver run with --store-formula?): %w", err)
	}
	defer rows.Close()

	clauses := []trace.Clause{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("trace: scan clause: %w", err)
		}
		c, err := trace.ClauseFromRow(len(clauses)+1, values)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows clauses: %w", err)
	}
	return clauses, nil
}

// Bags returns all bag IDs in ascending order.
func (s *Store) Bags(ctx context.Context, problem int) ([]int, error) {
	return s.ints(ctx, "bags",
		`SELECT bag FROM `+table(trace.BagTable(problem))+` GROUP BY bag ORDER BY bag`)
}

// BagNodes returns the nodes of one bag.
func (s *Store) BagNodes(ctx context.Context, problem, bag int) ([]int, error) {
	return s.ints(ctx, "bag nodes",
		`SELECT node FROM `+table(trace.BagTable(problem))+` WHERE bag = $1 ORDER BY node`, bag)
}

// BagStatus returns the start time and solving duration of one bag.
func (s *Store) BagStatus(ctx context.Context, problem, bag int) (trace.Event, error) {
	ev := trace.Event{Bag: bag}
	var secs float64
	err := s.db.QueryRow(ctx,
		`SELECT start_time, COALESCE(EXTRACT(EPOCH FROM (end_time - start_time)), 0)::float8 FROM `+
			table(trace.StatusTable(problem))+` WHERE node = $1`, bag,
	).Scan(&ev.Start, &secs)
	if err != nil {
		if isNoRows(err) {
			return ev, fmt.Errorf("trace: no status for bag %d", bag)
		}
		return ev, fmt.Errorf("trace: query bag status: %w", err)
	}
	ev.Duration = trace.Seconds(secs)
	return ev, nil
}

// SolveOrder returns the solved bags ordered by start time.
func (s *Store) SolveOrder(ctx context.Context, problem int) ([]trace.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT node, start_time, COALESCE(EXTRACT(EPOCH FROM (end_time - start_time)), 0)::float8 FROM `+
			table(trace.StatusTable(problem))+` ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("trace: query solve order: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var ev trace.Event
		var secs float64
		if err := rows.Scan(&ev.Bag, &ev.Start, &secs); err != nil {
			return nil, fmt.Errorf("trace: scan status: %w", err)
		}
		ev.Duration = trace.Seconds(secs)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows status: %w", err)
	}
	return events, nil
}

// Columns returns the column names of a bag's solution table in table order.
func (s *Store) Columns(ctx context.Context, problem, bag int) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position`,
		trace.NodeTable(problem, bag))
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
	rows, err := s.db.Query(ctx, `SELECT * FROM `+table(trace.NodeTable(problem, bag)))
	if err != nil {
		return nil, fmt.Errorf("trace: query bag %d: %w", bag, err)
	}
	defer rows.Close()

	result := [][]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("trace: scan bag %d: %w", bag, err)
		}
		for i, v := range values {
			values[i] = normalize(v)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: rows bag %d: %w", bag, err)
	}
	return result, nil
}

// Edges returns the (node, parent) edges of the decomposition.
func (s *Store) Edges(ctx context.Context, problem int) ([][2]int, error) {
	rows, err := s.db.Query(ctx, `SELECT node, parent FROM `+table(trace.EdgeTable(problem)))
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

func (s *Store) ints(ctx context.Context, what, query string, args ...any) ([]int, error) {
	rows, err := s.db.Query(ctx, query, args...)
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

// normalize turns pgx numeric values into plain Go numbers.
func normalize(v any) any {
	n, ok := v.(pgtype.Numeric)
	if !ok {
		return v
	}
	if !n.Valid {
		return nil
	}
	if i, err := n.Int64Value(); err == nil && i.Valid {
		return i.Int64
	}
	if f, err := n.Float64Value(); err == nil && f.Valid {
		return f.Float64
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var _ trace.Store = (*Store)(nil)
