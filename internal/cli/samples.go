package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/graph"
)

// samplesCommand creates the samples command for the built-in graphs.
func (c *CLI) samplesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "samples [name]",
		Short: "List the built-in sample graphs or write one as JSON",
		Long: `Without arguments, list the built-in graphs. With a name, print that
graph as JSON (or write it to -o). Every command that takes a graph file
also accepts "sample:<name>".`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: graph.SampleNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printSamples()
				return nil
			}
			return runSample(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph to this path instead of stdout")

	return cmd
}

func printSamples() {
	var rows [][]string
	for _, name := range graph.SampleNames() {
		g, _ := graph.Sample(name)
		rows = append(rows, []string{name, strconv.Itoa(g.NodeCount()), strconv.Itoa(g.EdgeCount())})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Sample", "Nodes", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Align(lipgloss.Right)
		})
	printNewline()
	fmt.Println(t.Render())
	printNextStep("Color one", "fourcolor color sample:australia")
}

func runSample(name, output string) error {
	g, ok := graph.Sample(name)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown sample %q", name)
	}
	if output == "" {
		return graph.WriteGraph(g, os.Stdout)
	}
	if err := graph.WriteGraphFile(g, output); err != nil {
		return err
	}
	printSuccess("Wrote sample %s", StyleHighlight.Render(name))
	printFile(output)
	return nil
}
