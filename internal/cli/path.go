package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tdvisu/pkg/dijkstra"
	"github.com/matzehuels/tdvisu/pkg/document"
	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
	"github.com/matzehuels/tdvisu/pkg/treedec"
)

// pathCommand creates the path command for querying the tree decomposition.
func (c *CLI) pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <document.json> <from> <to>",
		Short: "Shortest path between two bags",
		Long: `Print the shortest path between two bags of a document's tree
decomposition, the same path 'construct --inter-nodes' walks between two
consecutively solved bags.`,
		Example: `  tdvisu path dbjson3.json 5 1`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "bag %q", args[1])
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "bag %q", args[2])
			}

			doc, err := document.ImportJSON(args[0])
			if err != nil {
				return err
			}
			dist, route, err := shortestPath(doc, from, to)
			if err != nil {
				return err
			}
			c.Logger.Debug("path found", "from", from, "to", to, "hops", len(route)-1)

			printKeyValue("path", formatRoute(route))
			printKeyValue("distance", strconv.FormatFloat(dist, 'f', -1, 64))
			return nil
		},
	}
}

// shortestPath runs the bidirectional search over the decomposition's
// edges, all of weight 1.
func shortestPath(doc *document.Document, from, to int) (float64, []int, error) {
	g := treedec.Adjacency(doc.TreeDec.EdgeArray)
	dist, route, err := dijkstra.Bidirectional(g, from, to, nil)
	switch {
	case err == nil:
		return dist, route, nil
	case errors.Is(err, dijkstra.ErrNoPath):
		return 0, nil, apperrors.Wrap(apperrors.ErrCodeNoPath, err, "bags %d and %d", from, to)
	case errors.Is(err, dijkstra.ErrUnknownEndpoint):
		return 0, nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "bags %d and %d", from, to)
	case errors.Is(err, dijkstra.ErrContradictoryPath):
		return 0, nil, apperrors.Wrap(apperrors.ErrCodeInconsistent, err, "bags %d and %d", from, to)
	default:
		return 0, nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "bags %d and %d", from, to)
	}
}

func formatRoute(route []int) string {
	parts := make([]string, len(route))
	for i, b := range route {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}
