// Package svgjoin combines the per-step images of several diagrams into one
// image per step, placing them side by side.
//
// Images are read as <folder><name><suffix> with the step number filled
// into the suffix, e.g. "out/TDStep3.svg". The first image keeps its size;
// each further image is moved right of everything before it and placed
// vertically by its [Placement].
package svgjoin

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

// Options configures Join. List options are indexed by the position of the
// appended image within a step; a list shorter than the number of appended
// images repeats its last element.
type Options struct {
	BaseNames           []string
	Folder              string
	OutName             string
	Suffix              string
	PreserveAspectRatio string
	NumImages           int
	Padding             []float64
	Scale2              []float64
	VTop                []Anchor
	VBottom             []Anchor
	Logger              *log.Logger
}

func (o *Options) applyDefaults() {
	if o.OutName == "" {
		o.OutName = "combined"
	}
	if o.Suffix == "" {
		o.Suffix = "%d.svg"
	}
	if o.PreserveAspectRatio == "" {
		o.PreserveAspectRatio = "xMinYMin"
	}
	if o.NumImages < 1 {
		o.NumImages = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Folder != "" {
		o.Folder = strings.ReplaceAll(o.Folder, `\`, "/")
		if !strings.HasSuffix(o.Folder, "/") {
			o.Folder += "/"
		}
	}
}

// Join combines the images of every step and writes <folder><outname><suffix>.
// Fewer than two base names is not an error; Join logs a warning and
// returns.
func Join(ctx context.Context, opts Options) error {
	opts.applyDefaults()
	logger := opts.Logger

	switch len(opts.BaseNames) {
	case 0:
		logger.Warn("svg join found no images to combine")
		return nil
	case 1:
		logger.Warn("svg join called with one image, nothing to join", "name", opts.BaseNames[0])
		return nil
	}
	if err := apperrors.ValidatePattern(opts.Suffix, 1); err != nil {
		return err
	}

	for step := 1; step <= opts.NumImages; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		combined, err := load(opts.Folder + opts.BaseNames[0] + fmt.Sprintf(opts.Suffix, step))
		if err != nil {
			return err
		}
		for i, name := range opts.BaseNames[1:] {
			img, err := load(opts.Folder + name + fmt.Sprintf(opts.Suffix, step))
			if err != nil {
				return err
			}
			p := Placement{Top: at(opts.VTop, i), Bottom: at(opts.VBottom, i), Scale: at(opts.Scale2, i)}
			fit := combined.Append(img, at(opts.Padding, i), p)
			logger.Debug("appended image", "step", step, "name", name,
				"offset", fit.Offset, "height", fit.Height, "scale", fit.Scale)
			if size := img.ViewBox.Height * fit.Scale; size < 10 {
				logger.Warn("image scaled down to a small size", "name", name, "size", size)
			}
		}

		out := opts.Folder + opts.OutName + fmt.Sprintf(opts.Suffix, step)
		if err := write(out, combined, opts.PreserveAspectRatio); err != nil {
			return err
		}
		logger.Info("wrote combined image", "file", out)
	}
	return nil
}

func load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := Parse(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return img, nil
}

func write(path string, img *Image, preserveAspectRatio string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := img.Write(f, preserveAspectRatio); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// at returns list[i], the last element for short lists, or the zero value.
func at[T any](list []T, i int) T {
	var zero T
	if len(list) == 0 {
		return zero
	}
	if i >= len(list) {
		return list[len(list)-1]
	}
	return list[i]
}
