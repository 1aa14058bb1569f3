package coloring

import (
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// BasePalette is the four-color palette used for the first four indices.
var BasePalette = []string{"#e74c3c", "#3498db", "#2ecc71", "#f1c40f"}

const (
	hueSaturation = 0.65
	hueLightness  = 0.55
)

// Palette returns a palette of exactly n entries built from [BasePalette].
func Palette(n int) []string {
	return PaletteFrom(BasePalette, n)
}

// PaletteFrom returns exactly n colors. The first min(n, len(base)) come from
// base; the rest are evenly spaced HSL hues at index i of n, so indices past
// the base palette stay visually distinct.
func PaletteFrom(base []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	if n <= len(base) {
		return slices.Clone(base[:n])
	}
	out := make([]string, 0, n)
	out = append(out, base...)
	for i := len(base); i < n; i++ {
		hue := float64(i) * 360 / float64(n)
		out = append(out, colorful.Hsl(hue, hueSaturation, hueLightness).Hex())
	}
	return out
}
