package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/pipeline"
	"github.com/matzehuels/tdvisu/pkg/watch"
)

// visualizeOpts holds options for the visualize command.
type visualizeOpts struct {
	watch       bool
	keepSource  bool
	noCache     bool
	parallelism int
}

// visualizeCommand creates the visualize command for rendering a document.
func (c *CLI) visualizeCommand() *cobra.Command {
	opts := visualizeOpts{}

	cmd := &cobra.Command{
		Use:   "visualize [document.json|-] [outfolder]",
		Short: "Render the SVG series of a document",
		Long: `Render the SVG series a document describes into outfolder.

The tree decomposition is written as TDStep1.svg, TDStep2.svg, ... with one
image per timeline step; incidence, primal, dual and general graphs follow
the same scheme under their own names. When the document asks for it, the
series are then joined side by side.

The document is read from stdin when it is "-" or missing. Rendered frames
are cached locally, so re-rendering an edited document only lays out the
frames that changed. With --watch the document is rendered again on every
change until interrupted.`,
		Example: `  tdvisu visualize dbjson3.json out/
  tdvisu construct 3 -o - | tdvisu visualize - out/
  tdvisu visualize dbjson3.json out/ --watch`,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: completeJSON,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, folder := "-", pipeline.DefaultOutFolder
			if len(args) > 0 {
				input = args[0]
			}
			if len(args) > 1 {
				folder = args[1]
			}
			if opts.watch && input == "-" {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "--watch needs a document file, not stdin")
			}
			return c.runVisualize(cmd.Context(), input, folder, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "render again whenever the document changes")
	cmd.Flags().BoolVar(&opts.keepSource, "keep-source", false, "keep the DOT source of every frame (.gv)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().IntVar(&opts.parallelism, "parallel", 0, "graphs rendered at once (default: number of CPUs)")

	return cmd
}

// runVisualize renders the document once, or on every change with --watch.
func (c *CLI) runVisualize(ctx context.Context, input, folder string, opts visualizeOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	stats := c.installHooks()
	popts := pipeline.Options{
		OutFolder:   folder,
		KeepSource:  opts.keepSource,
		Parallelism: opts.parallelism,
		Logger:      c.Logger,
	}

	build := func(ctx context.Context) error {
		stats.reset()
		spinner := newSpinnerWithContext(ctx, "Loading "+input+"...")
		spinner.Start()
		doc, err := document.ImportJSON(input)
		if err != nil {
			spinner.Stop()
			return fmt.Errorf("load document %s: %w", input, err)
		}

		spinner.SetMessage(fmt.Sprintf("Rendering %d steps...", len(doc.Timeline)))
		res, err := runner.Execute(ctx, doc, popts)
		if err != nil {
			spinner.StopWithError("Visualization failed")
			return err
		}
		spinner.Stop()

		printResult(folder, res)
		printCacheStats(stats.hits.Load(), stats.misses.Load())
		return nil
	}

	if err := build(ctx); err != nil {
		if !opts.watch {
			return err
		}
		c.Logger.Error("render failed", "err", err)
	}
	if !opts.watch {
		return nil
	}

	w, err := watch.New(input, watch.WithLogger(c.Logger))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "watch %s", input)
	}
	printNewline()
	printInfo("Watching %s, press Ctrl+C to stop", w.Path())
	return w.Run(ctx, build)
}

func printResult(folder string, res *pipeline.Result) {
	printSuccess("Rendered %d frames for %d steps", res.Stats.Frames, res.Stats.Steps)
	names := make([]string, 0, len(res.Files))
	for name := range res.Files {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		printSeries(folder, name, res.Files[name])
	}
	if res.Joined {
		printDetail("joined into combined images")
	}
}
