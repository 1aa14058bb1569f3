package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// statsCommand creates the stats command for graph statistics.
func (c *CLI) statsCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "stats <graph.json|sample:name>",
		Short: "Print graph statistics including the chromatic number",
		Long: `Print node and edge counts, degree figures, the planarity edge bound
and the exact chromatic number. The chromatic number search can be slow on
large dense graphs; results are cached by graph content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runStats(ctx context.Context, input string, noCache bool) error {
	g, err := c.loadGraph(ctx, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing statistics...")
	spinner.Start()
	st, cacheHit, err := runner.StatsWithCacheInfo(ctx, g)
	if err != nil {
		spinner.StopWithError("Statistics failed")
		return err
	}
	spinner.Stop()

	printSuccess("Statistics for %s", StyleHighlight.Render(baseName(input)))
	printKeyValue("Nodes", strconv.Itoa(st.Nodes))
	printKeyValue("Edges", strconv.Itoa(st.Edges))
	printKeyValue("Degree", fmt.Sprintf("min %d · max %d · avg %.2f", st.MinDegree, st.MaxDegree, st.AvgDegree))
	printKeyValue("Chromatic", strconv.Itoa(st.Chromatic))
	planar := "no (more than 3n-6 edges)"
	if st.MaybePlanar {
		planar = "possibly"
	}
	printKeyValue("Planar", planar)
	printStats(st.Nodes, st.Chromatic, cacheHit)
	return nil
}
