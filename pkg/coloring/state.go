package coloring

import (
	"math/rand/v2"
	"slices"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
)

const unassigned = -1

// state is the working color vector shared by every strategy.
// colors[i] is the color of node i or unassigned; pinned nodes came from
// constraints and are never recolored.
type state struct {
	m         *adjacency.Model
	k         int
	colors    []int
	pinned    []bool
	forbidden [][]bool
	rank      []int // position of each node in the base order
	order     []int // base order: input order, or shuffled when randomized
	failed    bool
}

// newState applies constraints to a fresh color vector. A pinned color
// outside 0..k-1 marks the run as failed before any heuristic runs.
func newState(m *adjacency.Model, opts Options) *state {
	n := m.Len()
	s := &state{
		m:         m,
		k:         opts.MaxColors,
		colors:    make([]int, n),
		pinned:    make([]bool, n),
		forbidden: make([][]bool, n),
	}
	for i := range s.colors {
		s.colors[i] = unassigned
		s.forbidden[i] = make([]bool, s.k)
	}

	for _, c := range opts.Constraints {
		i, ok := m.Index(c.NodeID)
		if !ok {
			continue
		}
		for _, f := range c.Forbidden {
			if f >= 0 && f < s.k {
				s.forbidden[i][f] = true
			}
		}
		if c.Color != nil {
			if *c.Color < 0 || *c.Color >= s.k {
				s.failed = true
				continue
			}
			s.colors[i] = *c.Color
			s.pinned[i] = true
		}
	}

	s.order = baseOrder(n, opts)
	s.rank = make([]int, n)
	for pos, i := range s.order {
		s.rank[i] = pos
	}
	return s
}

// baseOrder returns 0..n-1, shuffled by a seeded PCG source when
// opts.Randomize is set.
func baseOrder(n int, opts Options) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if opts.Randomize {
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return order
}

// byDegree returns the base order stably sorted by descending degree.
func (s *state) byDegree() []int {
	order := slices.Clone(s.order)
	slices.SortStableFunc(order, func(a, b int) int {
		return s.m.Degree(b) - s.m.Degree(a)
	})
	return order
}

// smallestFree returns the lowest color in 0..k-1 that node i may take, or
// unassigned when every color is used by a neighbor or forbidden.
func (s *state) smallestFree(i int) int {
	used := make([]bool, s.k)
	for j := 0; j < s.m.Len(); j++ {
		if s.m.Adjacent(i, j) && s.colors[j] != unassigned {
			used[s.colors[j]] = true
		}
	}
	for c := 0; c < s.k; c++ {
		if !used[c] && !s.forbidden[i][c] {
			return c
		}
	}
	return unassigned
}

// colorInOrder assigns the smallest free color to each uncolored node in
// order. It stops and marks the state failed at the first node with no free
// color.
func (s *state) colorInOrder(order []int) {
	for _, i := range order {
		if s.failed {
			return
		}
		if s.colors[i] != unassigned {
			continue
		}
		c := s.smallestFree(i)
		if c == unassigned {
			s.failed = true
			return
		}
		s.colors[i] = c
	}
}

// saturation counts the distinct colors among the neighbors of node i.
func (s *state) saturation(i int) int {
	seen := make([]bool, s.k)
	count := 0
	for j := 0; j < s.m.Len(); j++ {
		if !s.m.Adjacent(i, j) {
			continue
		}
		if c := s.colors[j]; c != unassigned && !seen[c] {
			seen[c] = true
			count++
		}
	}
	return count
}

// result converts the color vector into an Assignment. A failed state
// yields an invalid assignment with an empty mapping.
func (s *state) result(name string) Assignment {
	if s.failed {
		a := Empty()
		a.Algorithm = name
		return a
	}
	colors := make(map[string]int, len(s.colors))
	for i, c := range s.colors {
		if c != unassigned {
			colors[s.m.ID(i)] = c
		}
	}
	a := Evaluate(s.m, colors)
	a.Algorithm = name
	return a
}

// Evaluate builds an Assignment from a raw mapping: palette sized to the
// largest index, chromatic count, and validity against m. Negative indices
// are dropped. The palette never grows past [MaxColorLimit]; a mapping with
// a larger index is invalid. The mapping is copied.
func Evaluate(m *adjacency.Model, colors map[string]int) Assignment {
	a := Assignment{Colors: make(map[string]int, len(colors))}
	for id, c := range colors {
		if c >= 0 {
			a.Colors[id] = c
		}
	}
	top := maxIndex(a.Colors)
	a.Palette = Palette(min(top, MaxColorLimit-1) + 1)
	a.Chromatic = Distinct(a.Colors)
	a.Valid = top < len(a.Palette) && Validate(m, a)
	return a
}
