package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/graph"
)

// validateCommand creates the validate command for checking a coloring file.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <graph.json|sample:name> <coloring.json>",
		Short: "Check that a coloring has no conflicting edges",
		Long: `Check that no two adjacent nodes share a color.

Exits with an error when conflicts are found. Nodes missing from the
coloring are reported but do not count as conflicts.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, graphPath, coloringPath string) error {
	g, err := c.loadGraph(ctx, graphPath)
	if err != nil {
		return err
	}
	read, err := graph.ReadColoringFile(coloringPath)
	if err != nil {
		return err
	}

	m := g.Model()
	a := coloring.Evaluate(m, read.Colors)
	conflicts := coloring.Conflicts(m, a)

	var missing int
	for _, id := range m.IDs() {
		if _, ok := a.Color(id); !ok {
			missing++
		}
	}
	if missing > 0 {
		printWarning("%d of %d nodes are uncolored", missing, m.Len())
	}

	if len(conflicts) > 0 {
		printError("%d conflicting edges", len(conflicts))
		printConflicts(conflicts)
		return errors.New(errors.ErrCodeInvalidInput, "coloring has %d conflicts", len(conflicts))
	}
	printSuccess("No conflicts %s", StyleDim.Render(fmt.Sprintf("(%d colors)", a.Chromatic)))
	return nil
}
