package timeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tdvisu/pkg/dijkstra"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/trace"
)

// TableSource provides the solution table of each solved bag.
type TableSource interface {
	Columns(ctx context.Context, problem, bag int) ([]string, error)
	Rows(ctx context.Context, problem, bag int) ([][]any, error)
}

// Builder turns solve events into timeline steps.
type Builder struct {
	Source      TableSource
	Problem     int
	Footer      FooterFunc  // nil means no footer
	Interpolate bool        // visit the tree path between consecutive bags
	Logger      *log.Logger // nil discards
}

// Build returns the timeline for events, which must be ordered by start
// time. edges is the (child, parent) edge list of the decomposition and is
// only consulted when interpolating.
func (b *Builder) Build(ctx context.Context, events []trace.Event, edges [][2]int) ([]Step, error) {
	logger := b.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	steps := []Step{}
	if len(events) == 0 {
		return steps, nil
	}

	var g dijkstra.Graph[int]
	if b.Interpolate {
		g = dijkstra.FromEdges(edges, false)
		first, last := events[0].Bag, events[len(events)-1].Bag
		route, err := path(g, last, first)
		if err != nil {
			return nil, err
		}
		logger.Debug("start loop", "from", last, "to", first, "path", route)
		if len(route) > 1 {
			for _, n := range route[1:] {
				steps = append(steps, Visit(n))
			}
		} else {
			steps = append(steps, Visit(first))
		}
	}

	prev := events[0].Bag
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if b.Interpolate {
			route, err := path(g, prev, ev.Bag)
			if err != nil {
				return nil, err
			}
			for _, n := range route[1:] {
				steps = append(steps, Visit(n))
			}
		} else {
			steps = append(steps, Visit(ev.Bag))
		}

		sol, err := b.solution(ctx, ev.Bag)
		if err != nil {
			return nil, err
		}
		logger.Debug("solved bag", "bag", ev.Bag, "columns", sol.Table.Columns, "rows", len(sol.Table.Rows))
		steps = append(steps, Solved(ev.Bag, sol))
		prev = ev.Bag
	}
	return steps, nil
}

func (b *Builder) solution(ctx context.Context, bag int) (Solution, error) {
	cols, err := b.Source.Columns(ctx, b.Problem, bag)
	if err != nil {
		return Solution{}, apperrors.Wrap(apperrors.ErrCodeStore, err, "read columns of bag %d", bag)
	}
	rows, err := b.Source.Rows(ctx, b.Problem, bag)
	if err != nil {
		return Solution{}, apperrors.Wrap(apperrors.ErrCodeStore, err, "read solutions of bag %d", bag)
	}
	table, err := NewTable(cols, rows)
	if err != nil {
		return Solution{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "solution table of bag %d", bag)
	}

	footer := b.Footer
	if footer == nil {
		footer = emptyFooter
	}
	return Solution{
		Table:     table,
		Top:       fmt.Sprintf("sol bag %d", bag),
		Bottom:    footer(table),
		Emphasize: true,
	}, nil
}

// path returns the bags from source to target inclusive.
func path(g dijkstra.Graph[int], source, target int) ([]int, error) {
	if source == target {
		return []int{source}, nil
	}
	_, route, err := dijkstra.Bidirectional(g, source, target, nil)
	switch {
	case err == nil:
		return route, nil
	case errors.Is(err, dijkstra.ErrNoPath):
		return nil, apperrors.Wrap(apperrors.ErrCodeNoPath, err, "interpolate from bag %d to %d", source, target)
	case errors.Is(err, dijkstra.ErrContradictoryPath):
		return nil, apperrors.Wrap(apperrors.ErrCodeInconsistent, err, "interpolate from bag %d to %d", source, target)
	case errors.Is(err, dijkstra.ErrUnknownEndpoint):
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "interpolate from bag %d to %d", source, target)
	default:
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "interpolate from bag %d to %d", source, target)
	}
}
