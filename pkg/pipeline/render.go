package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/observability"
	"github.com/franzenjb/fourcolor/pkg/render/nodelink"
)

// Color runs the selected algorithm on g without caching. A custom base
// palette in opts replaces the default palette entries of the result.
func Color(ctx context.Context, g graph.Graph, opts Options) (coloring.Assignment, error) {
	if err := opts.ValidateForColor(); err != nil {
		return coloring.Assignment{}, err
	}
	if err := ctx.Err(); err != nil {
		return coloring.Assignment{}, err
	}

	m := g.Model()
	hooks := observability.Coloring()
	hooks.OnColorStart(ctx, opts.Algorithm, m.Len())
	start := time.Now()

	a := coloring.Color(m, opts.ColoringOptions())
	if len(opts.Palette) > 0 {
		a.Palette = coloring.PaletteFrom(opts.Palette, len(a.Palette))
	}

	dur := time.Since(start)
	hooks.OnColorComplete(ctx, a.Algorithm, a.Chromatic, a.Valid, dur)
	opts.Logger.Debug("coloring finished",
		"algorithm", a.Algorithm,
		"nodes", m.Len(),
		"exhausted", a.Exhausted,
		"duration", dur)
	return a, nil
}

// Render draws a in every requested format without caching.
func Render(ctx context.Context, g graph.Graph, a coloring.Assignment, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(g, a, nodelink.Options{Labels: opts.Labels})
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := nodelink.Render(ctx, dot, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
