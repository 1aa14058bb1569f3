package coloring

import "github.com/franzenjb/fourcolor/pkg/adjacency"

// Conflict is an edge whose endpoints share a color.
type Conflict struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Color int    `json:"color"`
}

// Validate reports whether a has no adjacency conflict in m.
//
// Every unordered adjacent pair is checked; a pair conflicts only when both
// endpoints are assigned and share a color. Unassigned nodes and mapping
// entries for IDs outside m never conflict. The full matrix is scanned, so
// cost is O(n²) in the node count.
func Validate(m *adjacency.Model, a Assignment) bool {
	return scan(m, a, func(Conflict) bool { return false })
}

// Conflicts returns every conflicting edge in m order (by first endpoint,
// then second). It returns nil for a valid assignment.
func Conflicts(m *adjacency.Model, a Assignment) []Conflict {
	var out []Conflict
	scan(m, a, func(c Conflict) bool {
		out = append(out, c)
		return true
	})
	return out
}

// scan walks the upper triangle of m and calls found for each conflict.
// It stops early when found returns false and reports whether no conflict
// was seen.
func scan(m *adjacency.Model, a Assignment, found func(Conflict) bool) bool {
	n := m.Len()
	clean := true
	for i := 0; i < n; i++ {
		ci, ok := a.Colors[m.ID(i)]
		if !ok {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !m.Adjacent(i, j) {
				continue
			}
			if cj, ok := a.Colors[m.ID(j)]; ok && ci == cj {
				clean = false
				if !found(Conflict{A: m.ID(i), B: m.ID(j), Color: ci}) {
					return false
				}
			}
		}
	}
	return clean
}
