package adjacency

import "slices"

// Node is a graph vertex as supplied by a loader. Only ID matters to the
// coloring engine; Label and position are carried for renderers.
type Node struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an undirected connection between two node IDs. Source and Target
// are interchangeable; the model stores both directions.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the loader-facing input: an ordered node list and an edge list.
// Node order defines the index of every node in the resulting [Model].
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Model is a symmetric boolean adjacency matrix indexed by node position.
//
// The diagonal is always false and adj[i][j] == adj[j][i] for every pair.
// A Model is immutable once built: reloading a graph builds a new Model.
// The zero value is an empty model with no nodes.
type Model struct {
	ids   []string
	index map[string]int
	adj   [][]bool
	deg   []int
	edges int
}

// Build normalizes nodes and edges into a Model.
//
// Build never fails. Edges referencing an unknown node ID are dropped, as
// are self-loops. Duplicate edges set the same cell twice and have no
// further effect. When a node ID appears more than once, the first
// occurrence defines its index and later duplicates are ignored.
//
// Build is deterministic: identical input always yields an identical Model.
func Build(nodes []Node, edges []Edge) *Model {
	m := &Model{
		ids:   make([]string, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := m.index[n.ID]; dup {
			continue
		}
		m.index[n.ID] = len(m.ids)
		m.ids = append(m.ids, n.ID)
	}

	size := len(m.ids)
	m.adj = make([][]bool, size)
	for i := range m.adj {
		m.adj[i] = make([]bool, size)
	}
	m.deg = make([]int, size)

	for _, e := range edges {
		i, ok := m.index[e.Source]
		if !ok {
			continue
		}
		j, ok := m.index[e.Target]
		if !ok || i == j {
			continue
		}
		if m.adj[i][j] {
			continue
		}
		m.adj[i][j] = true
		m.adj[j][i] = true
		m.deg[i]++
		m.deg[j]++
		m.edges++
	}
	return m
}

// FromGraph is shorthand for Build(g.Nodes, g.Edges).
func FromGraph(g Graph) *Model {
	return Build(g.Nodes, g.Edges)
}

// Len returns the number of nodes (the matrix dimension).
func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// IDs returns a copy of the node IDs in index order.
func (m *Model) IDs() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.ids)
}

// ID returns the node ID at index i.
func (m *Model) ID(i int) string { return m.ids[i] }

// Index returns the position of id and whether it is part of the model.
func (m *Model) Index(id string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[id]
	return i, ok
}

// Has reports whether id is a node of the model.
func (m *Model) Has(id string) bool {
	_, ok := m.Index(id)
	return ok
}

// Adjacent reports whether positions i and j share an edge.
func (m *Model) Adjacent(i, j int) bool { return m.adj[i][j] }

// Degree returns the number of neighbors of the node at index i.
func (m *Model) Degree(i int) int { return m.deg[i] }

// Degrees returns a copy of every node's degree in index order.
func (m *Model) Degrees() []int {
	if m == nil {
		return nil
	}
	return slices.Clone(m.deg)
}

// Neighbors returns the indices adjacent to i in ascending order.
func (m *Model) Neighbors(i int) []int {
	out := make([]int, 0, m.deg[i])
	for j, ok := range m.adj[i] {
		if ok {
			out = append(out, j)
		}
	}
	return out
}

// EdgeCount returns the number of distinct undirected edges.
func (m *Model) EdgeCount() int {
	if m == nil {
		return 0
	}
	return m.edges
}

// Matrix returns a deep copy of the adjacency matrix.
func (m *Model) Matrix() [][]bool {
	if m == nil {
		return nil
	}
	out := make([][]bool, len(m.adj))
	for i, row := range m.adj {
		out[i] = slices.Clone(row)
	}
	return out
}

// Edges returns every undirected edge once, as index pairs with i < j,
// ordered by i then j.
func (m *Model) Edges() [][2]int {
	if m == nil {
		return nil
	}
	out := make([][2]int, 0, m.edges)
	for i := range m.adj {
		for j := i + 1; j < len(m.adj); j++ {
			if m.adj[i][j] {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}
