package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/pipeline"
	"github.com/franzenjb/fourcolor/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "svg", "png", "dot"
	coloring string   // existing coloring file; empty colors the graph first
	labels   bool     // show display labels instead of IDs
}

// renderCommand creates the render command for drawing a colored graph.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		flags      coloringFlags
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render <graph.json|sample:name>",
		Short: "Render a colored graph to SVG, PNG or DOT",
		Long: `Render a graph as a node-link diagram with every node filled in its color.
Conflicting edges are drawn thick and red.

Without --coloring the graph is colored first using the coloring flags.`,
		Example: `  fourcolor render sample:petersen -f svg,png
  fourcolor render map.json --coloring map.coloring.json -o out/map.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			popts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			popts.Formats = opts.formats
			popts.Labels = opts.labels
			return c.runRender(cmd.Context(), args[0], &opts, popts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().StringVar(&opts.coloring, "coloring", "", "coloring JSON file to render instead of computing one")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "show display labels instead of node IDs")

	return cmd
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .png, .dot), that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if strings.HasPrefix(input, samplePrefix) || isURL(input) {
			return baseName(input)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps every format to the file it is written to.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts, popts pipeline.Options, noCache bool) error {
	g, err := c.loadGraph(ctx, input)
	if err != nil {
		return err
	}
	popts.Logger = c.Logger
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Coloring...")
	spinner.Start()
	a, err := c.resolveColoring(ctx, runner, g, opts.coloring, popts)
	if err != nil {
		spinner.StopWithError("Coloring failed")
		return err
	}

	spinner.SetMessage("Rendering...")
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, g, a, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths := outputPaths(opts.output, input, popts.Formats)
	printSuccess("Rendered %s", StyleHighlight.Render(baseName(input)))
	for _, f := range popts.Formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(a.Colors), a.Chromatic, cacheHit)
	return nil
}

// resolveColoring reads the coloring file when given, and colors g otherwise.
func (c *CLI) resolveColoring(ctx context.Context, runner *pipeline.Runner, g graph.Graph, path string, opts pipeline.Options) (coloring.Assignment, error) {
	if path == "" {
		a, _, err := runner.ColorWithCacheInfo(ctx, g, opts)
		return a, err
	}
	read, err := graph.ReadColoringFile(path)
	if err != nil {
		return coloring.Assignment{}, err
	}
	a := coloring.Evaluate(g.Model(), read.Colors)
	a.Algorithm = read.Algorithm
	if len(opts.Palette) > 0 {
		a.Palette = coloring.PaletteFrom(opts.Palette, len(a.Palette))
	}
	loggerFromContext(ctx).Debug("Loaded coloring", "path", path, "nodes", len(a.Colors))
	return a, nil
}
