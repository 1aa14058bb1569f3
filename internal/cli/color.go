package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/config"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/pipeline"
)

// coloringFlags holds the flags shared by every command that colors a graph.
type coloringFlags struct {
	algorithm   string
	maxColors   int
	constraints string
	randomize   bool
	seed        uint64
	maxSteps    int
	timeout     time.Duration
	palette     string
	refresh     bool
	noCache     bool
}

func (f *coloringFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "algorithm: "+strings.Join(coloring.Names(), ", ")+" (default from config)")
	cmd.Flags().IntVarP(&f.maxColors, "max-colors", "k", 0, "color budget (default from config)")
	cmd.Flags().StringVar(&f.constraints, "constraints", "", "JSON file with pinned and forbidden colors")
	cmd.Flags().BoolVar(&f.randomize, "randomize", false, "shuffle the initial node order")
	cmd.Flags().Uint64Var(&f.seed, "seed", coloring.DefaultSeed, "shuffle seed for --randomize")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "backtracking step budget (default from config)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "backtracking time budget (default from config)")
	cmd.Flags().StringVar(&f.palette, "palette", "", "comma-separated base palette (hex colors)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options layers the flags over the configuration defaults.
func (f *coloringFlags) options(cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		Algorithm: cfg.Algorithm,
		MaxColors: cfg.MaxColors,
		MaxSteps:  cfg.MaxSteps,
		Timeout:   cfg.Timeout,
		Palette:   cfg.Palette,
		Randomize: f.randomize,
		Seed:      f.seed,
		Refresh:   f.refresh,
	}
	if f.algorithm != "" {
		opts.Algorithm = f.algorithm
	}
	if f.maxColors != 0 {
		opts.MaxColors = f.maxColors
	}
	if f.maxSteps != 0 {
		opts.MaxSteps = f.maxSteps
	}
	if f.timeout != 0 {
		opts.Timeout = f.timeout
	}
	if p := splitList(f.palette); len(p) > 0 {
		opts.Palette = p
	}
	if f.constraints != "" {
		cs, err := graph.ReadConstraintsFile(f.constraints)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Constraints = cs
	}
	return opts, nil
}

// colorCommand creates the color command for computing a coloring.
func (c *CLI) colorCommand() *cobra.Command {
	var (
		flags  coloringFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "color <graph.json|sample:name>",
		Short: "Compute a coloring for a graph",
		Long: `Compute a coloring for a graph so that adjacent nodes get different colors.

The coloring is printed as a table. With -o it is also written as JSON,
ready for "fourcolor validate" and "fourcolor render --coloring".`,
		Example: `  fourcolor color sample:australia
  fourcolor color map.json -a backtracking -k 3 -o map.coloring.json
  fourcolor color map.json --constraints pins.json --randomize --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			return c.runColor(cmd.Context(), args[0], output, flags.noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the coloring as JSON to this path")

	return cmd
}

func (c *CLI) runColor(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	g, err := c.loadGraph(ctx, input)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateForColor(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Coloring with %s...", opts.Algorithm))
	spinner.Start()
	prog := newProgress(loggerFromContext(ctx))

	a, cacheHit, err := runner.ColorWithCacheInfo(ctx, g, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			printWarning("Coloring cancelled")
			return err
		}
		spinner.StopWithError("Coloring failed")
		return err
	}
	spinner.Stop()
	prog.done("Colored graph", "algorithm", a.Algorithm, "nodes", len(a.Colors), "colors", a.Chromatic)

	printColoringResult(g, a, cacheHit)

	if output != "" {
		if err := graph.WriteColoringFile(a, output); err != nil {
			return err
		}
		printFile(output)
		printNewline()
		printNextStep("Render it", fmt.Sprintf("fourcolor render %s --coloring %s", input, output))
	}
	return nil
}

// printColoringResult prints the headline, the node table and any warnings.
func printColoringResult(g graph.Graph, a coloring.Assignment, cached bool) {
	switch {
	case a.Valid:
		printSuccess("Colored with %s using %s colors", StyleHighlight.Render(a.Algorithm), StyleNumber.Render(fmt.Sprint(a.Chromatic)))
	case a.Exhausted:
		printWarning("Search budget exhausted; remaining nodes were filled with color 0")
	default:
		printWarning("No valid coloring within the color budget (%s)", a.Algorithm)
	}
	printStats(len(a.Colors), a.Chromatic, cached)
	printColoringTable(g, a)

	if conflicts := coloring.Conflicts(g.Model(), a); len(conflicts) > 0 {
		printWarning("%d conflicting edges", len(conflicts))
		printConflicts(conflicts)
	}
}
