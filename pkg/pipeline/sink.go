package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

// FileSink writes frame n as <dir>/<prefix><n>.svg and, with KeepSource,
// its DOT source as <dir>/<prefix><n>.gv.
type FileSink struct {
	Dir        string
	Prefix     string
	KeepSource bool

	frames int
}

// NewFileSink returns a sink writing into dir.
func NewFileSink(dir, prefix string, keepSource bool) *FileSink {
	return &FileSink{Dir: dir, Prefix: prefix, KeepSource: keepSource}
}

// Path returns the file frame n is written to.
func (s *FileSink) Path(n int, ext string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%d.%s", s.Prefix, n, ext))
}

// WriteFrame implements [diagram.Sink].
func (s *FileSink) WriteFrame(ctx context.Context, n int, dot, svg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.KeepSource {
		if err := os.WriteFile(s.Path(n, "gv"), dot, 0o644); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "write source of frame %d", n)
		}
	}
	if err := os.WriteFile(s.Path(n, "svg"), svg, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "write frame %d", n)
	}
	s.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (s *FileSink) Frames() int { return s.frames }
