package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Labels shows display labels instead of node IDs.
	Labels bool

	// ShowIndex appends the color index to each label.
	ShowIndex bool

	// HideConflicts disables highlighting of edges whose endpoints share a
	// color.
	HideConflicts bool
}

const (
	unassignedFill = "#ffffff"
	conflictColor  = "#c0392b"
	darkText       = "#1a1a1a"
	lightText      = "#ffffff"
)

// ToDOT converts a graph and its assignment to Graphviz DOT source.
//
// Nodes are filled with their palette color; unassigned nodes stay white.
// Nodes with a position are pinned to it. Edges are taken from the
// adjacency model, so edges naming unknown nodes and duplicates are
// omitted. Conflicting edges are drawn thick and red unless
// opts.HideConflicts is set.
func ToDOT(g graph.Graph, a coloring.Assignment, opts Options) string {
	m := g.Model()
	conflicts := make(map[[2]string]bool)
	if !opts.HideConflicts {
		for _, c := range coloring.Conflicts(m, a) {
			conflicts[[2]string{c.A, c.B}] = true
		}
	}
	nodes := make(map[string]graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := nodes[n.ID]; !ok {
			nodes[n.ID] = n
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14, penwidth=1.5];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, id := range m.IDs() {
		n := nodes[id]
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n, a, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		u, v := m.ID(e[0]), m.ID(e[1])
		if conflicts[[2]string{u, v}] {
			fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=4];\n", u, v, conflictColor)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", u, v)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.Node, a coloring.Assignment, opts Options) []string {
	label := n.ID
	if opts.Labels {
		label = n.DisplayLabel()
	}
	fill := unassignedFill
	if c, ok := a.Color(n.ID); ok {
		if h := a.Hex(n.ID); h != "" {
			fill = h
		}
		if opts.ShowIndex {
			label = fmt.Sprintf("%s\n%d", label, c)
		}
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("fontcolor=%q", textColor(fill)),
	}
	if n.X != 0 || n.Y != 0 {
		// Graphviz y grows upward; input y grows downward like screen space.
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.X), fmtFloat(-n.Y)))
	}
	return attrs
}

// textColor picks dark or light text for legibility on fill.
func textColor(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return darkText
	}
	if l, _, _ := c.Lab(); l < 0.6 {
		return lightText
	}
	return darkText
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Render renders DOT source to the given format. FormatDOT returns the
// source unchanged.
func Render(ctx context.Context, dot string, format string) ([]byte, error) {
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG:
		svg, err := run(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return normalizeViewBox(svg), nil
	case render.FormatPNG:
		return run(ctx, dot, graphviz.PNG)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, render.FormatSVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, render.FormatPNG)
}

func run(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
