// Package cli implements the tdvisu command-line interface.
//
// Commands:
//   - construct: read a solver run from the trace store into a JSON document
//   - visualize: render the SVG series a document describes
//   - svgjoin: place SVG series side by side
//   - path: shortest path between two bags of a decomposition
//   - inspect: browse a document's timeline in the terminal
//   - cache: manage the render cache
//
// Diagnostics go to stderr through charmbracelet/log; every invocation
// logs under a short run ID. Results are printed to stdout.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

// newLogger returns a logger on w with centisecond timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLevel picks the log level: --verbose first, then --loglevel, then
// the configured level. An empty configured level means info.
func parseLevel(verbose bool, flag, configured string) (log.Level, error) {
	if verbose {
		return log.DebugLevel, nil
	}
	s := flag
	if s == "" {
		s = configured
	}
	if s == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "log level %q", s)
	}
	return level, nil
}

// progress logs how long a command took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Constructed problem 4 (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
