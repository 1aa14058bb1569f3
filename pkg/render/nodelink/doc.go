// Package nodelink renders colored graphs as undirected node-link diagrams.
//
// # Usage
//
// Convert a graph and an assignment to DOT, then render:
//
//	dot := nodelink.ToDOT(g, a, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses the neato engine with circular nodes filled from
// the assignment's palette. Text switches to white on dark fills. Nodes
// that carry a position are pinned to it, so region maps keep their shape.
// Edges whose endpoints share a color are drawn thick and red.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is needed.
package nodelink
