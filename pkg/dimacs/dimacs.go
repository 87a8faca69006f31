// Package dimacs reads graphs in the DIMACS text formats used by tree
// decomposition solvers.
//
// A DIMACS file consists of a preamble and a body. The preamble ends with
// the problem line ("p <format> <args...>"); comment lines start with "c".
// Parsing happens in two phases: [Parse] scans the preamble and hands the
// problem line to a [Handler], which then receives every body line.
package dimacs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoPreamble is returned when the input contains no problem line.
var ErrNoPreamble = errors.New("dimacs: no problem line found")

// Problem is the parsed problem line, e.g. "p tw 5 4".
type Problem struct {
	Type   string   // "p" for problems, "s" for solutions
	Format string   // e.g. "tw"
	Args   []string // remaining fields
	Line   int      // 1-based line number
}

// Handler receives the two parse phases.
type Handler interface {
	// Preamble is called once with the problem line.
	Preamble(p Problem) error
	// Line is called for every non-empty, non-comment body line.
	Line(lineno int, fields []string) error
	// Done is called after the last body line.
	Done() error
}

// Warner receives non-fatal diagnostics.
type Warner func(format string, args ...any)

// IsComment reports whether line is a DIMACS comment.
func IsComment(line string) bool {
	return line == "c" || strings.HasPrefix(line, "c ")
}

// Parse runs the preamble and body phases over r.
// Unexpected preamble lines are reported to warn and skipped.
func Parse(r io.Reader, h Handler, warn Warner) error {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	inBody := false
	for sc.Scan() {
		lineno++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || IsComment(line) {
			continue
		}

		if !inBody {
			if strings.HasPrefix(line, "p ") || strings.HasPrefix(line, "s ") {
				fields := strings.Fields(line)
				if len(fields) < 2 {
					return fmt.Errorf("dimacs: line %d: problem line without format", lineno)
				}
				if err := h.Preamble(Problem{Type: fields[0], Format: fields[1], Args: fields[2:], Line: lineno}); err != nil {
					return err
				}
				inBody = true
				continue
			}
			warn("invalid content in preamble at line %d: %s", lineno, line)
			continue
		}

		if err := h.Line(lineno, strings.Fields(line)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("dimacs: read: %w", err)
	}
	if !inBody {
		return ErrNoPreamble
	}
	return h.Done()
}
