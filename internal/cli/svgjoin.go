package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/svgjoin"
)

// svgjoinOpts holds the raw flags of the svgjoin command.
type svgjoinOpts struct {
	join    svgjoin.Options
	vTop    []string
	vBottom []string
}

// svgjoinCommand creates the svgjoin command for combining frame series.
func (c *CLI) svgjoinCommand() *cobra.Command {
	opts := svgjoinOpts{}

	cmd := &cobra.Command{
		Use:   "svgjoin <name> <name>...",
		Short: "Join SVG series side by side",
		Long: `Join the images <name>1.svg, <name>2.svg, ... of several series into
combined1.svg, combined2.svg, ... placing them left to right.

Every image after the first is aligned against the first one: --v-top and
--v-bottom give its top and bottom edge as a fraction of the first image's
height (or top, center, bottom; none leaves the edge free). Padding, scale
and anchors take one value per appended image; the last value repeats.`,
		Example: `  tdvisu svgjoin TDStep IncidenceGraphStep --folder out --num-images 12
  tdvisu svgjoin TDStep PrimalGraphStep --v-top center --v-bottom 0.9 --padding 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.join.BaseNames = args
			return c.runSvgjoin(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.join.Folder, "folder", "", "folder holding the images (default: current directory)")
	cmd.Flags().IntVarP(&opts.join.NumImages, "num-images", "n", 1, "number of steps to join")
	cmd.Flags().StringVar(&opts.join.OutName, "outname", "combined", "base name of the joined images")
	cmd.Flags().StringVar(&opts.join.Suffix, "suffix", "%d.svg", "file name suffix, formatted with the step number")
	cmd.Flags().StringVar(&opts.join.PreserveAspectRatio, "preserve-aspectratio", "xMinYMin", "preserveAspectRatio of the joined image")
	cmd.Flags().Float64SliceVar(&opts.join.Padding, "padding", nil, "horizontal gap before each appended image")
	cmd.Flags().Float64SliceVar(&opts.join.Scale2, "scale2", nil, "scale of each appended image when at most one anchor is set")
	cmd.Flags().StringSliceVar(&opts.vTop, "v-top", []string{"top"}, "top edge of each appended image")
	cmd.Flags().StringSliceVar(&opts.vBottom, "v-bottom", nil, "bottom edge of each appended image")

	return cmd
}

func (c *CLI) runSvgjoin(ctx context.Context, opts svgjoinOpts) error {
	var err error
	if opts.join.VTop, err = parseAnchors(opts.vTop); err != nil {
		return err
	}
	if opts.join.VBottom, err = parseAnchors(opts.vBottom); err != nil {
		return err
	}
	for _, name := range opts.join.BaseNames {
		if err := apperrors.ValidateBaseName(name); err != nil {
			return err
		}
	}
	opts.join.Logger = c.Logger

	prog := newProgress(c.Logger)
	if err := svgjoin.Join(ctx, opts.join); err != nil {
		return err
	}
	if len(opts.join.BaseNames) < 2 {
		printWarning("Nothing to join with a single series")
		return nil
	}
	prog.done(fmt.Sprintf("Joined %d series", len(opts.join.BaseNames)))

	printSuccess("Joined %d series over %d steps", len(opts.join.BaseNames), opts.join.NumImages)
	printSeries(opts.join.Folder, opts.join.OutName, opts.join.NumImages)
	return nil
}

func parseAnchors(values []string) ([]svgjoin.Anchor, error) {
	out := make([]svgjoin.Anchor, 0, len(values))
	for _, v := range values {
		a, err := svgjoin.ParseAnchor(v)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse anchor")
		}
		out = append(out, a)
	}
	return out, nil
}
