package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tdvisu/pkg/construct"
	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

// defaultOutfile is formatted with the problem number.
const defaultOutfile = "dbjson%d.json"

// constructOpts holds options for the construct command.
type constructOpts struct {
	sqlite      string
	twFile      string
	outfile     string
	pretty      bool
	interpolate bool
}

// constructCommand creates the construct command for reading a solver run
// out of the trace database.
func (c *CLI) constructCommand() *cobra.Command {
	opts := constructOpts{}

	cmd := &cobra.Command{
		Use:   "construct <problem>",
		Short: "Build a visualization document from a solver run",
		Long: `Read the trace of one solver run from the database and write the JSON
document that 'tdvisu visualize' renders.

The database is PostgreSQL as configured in the config file (or DATABASE_URL),
unless --sqlite points at a local trace database.`,
		Example: `  # Problem 3 from the configured PostgreSQL database
  tdvisu construct 3

  # From a SQLite trace, with the input graph of a vertex cover run
  tdvisu construct 3 --sqlite traces.db --twfile graph.tw --pretty

  # Print the document instead of writing dbjson3.json
  tdvisu construct 3 --outfile -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := strconv.Atoi(args[0])
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "problem %q", args[0])
			}
			return c.runConstruct(cmd, problem, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sqlite, "sqlite", "", "read the trace from this SQLite database")
	cmd.Flags().StringVar(&opts.twFile, "twfile", "", "input graph of a vertex cover run (tw format)")
	cmd.Flags().StringVarP(&opts.outfile, "outfile", "o", defaultOutfile, "output file, formatted with the problem number (- for stdout)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().BoolVar(&opts.interpolate, "inter-nodes", false, "visit the bags between two solved bags")

	return cmd
}

func (c *CLI) runConstruct(cmd *cobra.Command, problem int, opts constructOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	cfg := *c.Config
	if opts.sqlite != "" {
		cfg.SQLite.Path = opts.sqlite
	}

	store, err := construct.OpenStore(ctx, &cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := construct.Construct(ctx, store, construct.Options{
		Problem:     problem,
		Interpolate: opts.interpolate,
		TwFile:      opts.twFile,
		Logger:      c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Constructed problem %d", problem))

	outfile := outfileName(opts.outfile, problem)
	if outfile == "-" {
		return document.WriteJSON(doc, cmd.OutOrStdout(), opts.pretty)
	}
	if err := document.ExportJSON(doc, outfile, opts.pretty); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "write document")
	}

	printSuccess("Constructed problem %d", problem)
	printStats(len(doc.TreeDec.LabelDict), len(doc.Timeline), len(doc.IncidenceGraphs)+len(doc.GeneralGraphs))
	printFile(outfile)
	printNewline()
	printNextStep("Render it", "tdvisu visualize "+outfile+" out/")
	return nil
}

// outfileName substitutes the problem number into pattern. A name without
// a %d or %s verb is used as it is.
func outfileName(pattern string, problem int) string {
	if apperrors.ValidatePattern(pattern, 1) != nil {
		return pattern
	}
	if strings.Contains(pattern, "%s") {
		return fmt.Sprintf(pattern, strconv.Itoa(problem))
	}
	return fmt.Sprintf(pattern, problem)
}
