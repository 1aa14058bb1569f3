// Package render names the output formats shared by renderers.
//
// The [nodelink] subpackage draws a colored graph as an undirected
// node-link diagram using Graphviz:
//
//	dot := nodelink.ToDOT(g, a, nodelink.Options{Labels: true})
//	svg, err := nodelink.Render(ctx, dot, render.FormatSVG)
//
// [nodelink]: github.com/franzenjb/fourcolor/pkg/render/nodelink
package render

import (
	"slices"
	"strings"

	"github.com/franzenjb/fourcolor/pkg/errors"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT}

// ParseFormat normalizes a format name, accepting a leading dot as in a
// file extension.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", s, strings.Join(Formats, ", "))
	}
	return f, nil
}
