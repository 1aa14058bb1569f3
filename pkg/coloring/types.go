package coloring

import (
	"maps"
	"slices"
	"time"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultMaxColors is the color budget when Options.MaxColors is unset.
	// Four colors suffice for every planar graph.
	DefaultMaxColors = 4

	// DefaultMaxSteps bounds the number of node visits Backtracking may make
	// before giving up.
	DefaultMaxSteps = 100_000

	// DefaultSeed seeds randomized node ordering when Options.Seed is zero.
	DefaultSeed = uint64(42)

	// MaxColorLimit caps color budgets and color indices. An index at or
	// above it never gets a palette entry.
	MaxColorLimit = 256
)

// =============================================================================
// Constraint
// =============================================================================

// Constraint pins a node to a color and/or forbids colors for it.
// Constraints are applied before any heuristic runs and are never
// overwritten. Constraints naming unknown nodes are ignored.
type Constraint struct {
	NodeID    string `json:"node_id"`
	Color     *int   `json:"color,omitempty"`
	Forbidden []int  `json:"forbidden,omitempty"`
}

// Pin returns a constraint fixing nodeID to color.
func Pin(nodeID string, color int) Constraint {
	return Constraint{NodeID: nodeID, Color: &color}
}

// Forbid returns a constraint excluding colors for nodeID.
func Forbid(nodeID string, colors ...int) Constraint {
	return Constraint{NodeID: nodeID, Forbidden: colors}
}

// =============================================================================
// Options
// =============================================================================

// Options configures a coloring run.
type Options struct {
	// Algorithm selects the strategy by name. Unknown names fall back to
	// greedy. Only consulted by [Color] and the engine.
	Algorithm string `json:"algorithm,omitempty"`

	// MaxColors is the color budget; indices 0..MaxColors-1 are usable.
	MaxColors int `json:"max_colors,omitempty"`

	// Constraints are user-pinned colors and forbidden sets.
	Constraints []Constraint `json:"constraints,omitempty"`

	// Randomize shuffles the initial node order with a PCG source seeded by
	// Seed. Every algorithm then breaks ordering ties by the shuffled order,
	// so a fixed seed still gives a reproducible result.
	Randomize bool   `json:"randomize,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`

	// MaxSteps caps Backtracking node visits. Zero means DefaultMaxSteps.
	MaxSteps int `json:"max_steps,omitempty"`

	// Timeout caps Backtracking wall-clock time. Zero means no time limit
	// (MaxSteps still applies).
	Timeout time.Duration `json:"-"`
}

// withDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) withDefaults() Options {
	if o.MaxColors <= 0 {
		o.MaxColors = DefaultMaxColors
	}
	o.MaxColors = min(o.MaxColors, MaxColorLimit)
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// =============================================================================
// Assignment
// =============================================================================

// Assignment maps node IDs to color indices.
//
// Nodes without an entry are unassigned. Chromatic is the number of
// distinct indices in Colors, and Palette has max(index)+1 entries capped at
// [MaxColorLimit]. Valid is false when the run could not complete within its
// color budget, when an index has no palette entry, or when the mapping has
// an adjacency conflict.
type Assignment struct {
	Colors    map[string]int `json:"colors"`
	Palette   []string       `json:"palette"`
	Chromatic int            `json:"chromatic"`
	Valid     bool           `json:"valid"`

	// Algorithm names the strategy that produced the assignment, or
	// "manual" after a hand edit. Empty for a fresh assignment.
	Algorithm string `json:"algorithm,omitempty"`

	// Exhausted reports that Backtracking ran out of search budget and
	// filled the remaining nodes with color 0.
	Exhausted bool `json:"exhausted,omitempty"`
}

// Empty returns an assignment with no colored nodes and Valid set to false.
// It is the engine's state right after a load or reset.
func Empty() Assignment {
	return Assignment{Colors: map[string]int{}, Palette: []string{}}
}

// Clone returns a deep copy sharing no mutable state with a.
func (a Assignment) Clone() Assignment {
	out := a
	out.Colors = maps.Clone(a.Colors)
	if out.Colors == nil {
		out.Colors = map[string]int{}
	}
	out.Palette = slices.Clone(a.Palette)
	if out.Palette == nil {
		out.Palette = []string{}
	}
	return out
}

// Equal reports value equality of two assignments.
func (a Assignment) Equal(b Assignment) bool {
	return maps.Equal(a.Colors, b.Colors) &&
		slices.Equal(a.Palette, b.Palette) &&
		a.Chromatic == b.Chromatic &&
		a.Valid == b.Valid &&
		a.Algorithm == b.Algorithm &&
		a.Exhausted == b.Exhausted
}

// Color returns the color index of nodeID and whether it is assigned.
func (a Assignment) Color(nodeID string) (int, bool) {
	c, ok := a.Colors[nodeID]
	return c, ok
}

// Hex returns the palette entry for nodeID, or "" when unassigned or out of
// palette range.
func (a Assignment) Hex(nodeID string) string {
	c, ok := a.Colors[nodeID]
	if !ok || c < 0 || c >= len(a.Palette) {
		return ""
	}
	return a.Palette[c]
}

// Distinct returns the number of distinct color indices in colors.
func Distinct(colors map[string]int) int {
	seen := make(map[int]struct{}, len(colors))
	for _, c := range colors {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// maxIndex returns the largest color index in colors, or -1 when empty.
func maxIndex(colors map[string]int) int {
	hi := -1
	for _, c := range colors {
		hi = max(hi, c)
	}
	return hi
}
