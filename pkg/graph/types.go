package graph

import (
	"encoding/json"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
	"github.com/franzenjb/fourcolor/pkg/coloring"
)

// =============================================================================
// Graph - Undirected Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for graphs and region maps.
// Used for input files, API request bodies, session storage and cache keys.
//
// Node order is significant: it defines the index of every node in the
// adjacency model and therefore the tie-breaking order of every algorithm.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a vertex or map region.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	X     float64        `json:"x,omitempty" bson:"x,omitempty"`
	Y     float64        `json:"y,omitempty" bson:"y,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an undirected adjacency between two node IDs.
//
// On input "from"/"to" are accepted as aliases for "source"/"target".
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// UnmarshalJSON accepts both {"source","target"} and {"from","to"}.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw struct {
		Source string `json:"source"`
		Target string `json:"target"`
		From   string `json:"from"`
		To     string `json:"to"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Source, e.Target = raw.Source, raw.Target
	if e.Source == "" {
		e.Source = raw.From
	}
	if e.Target == "" {
		e.Target = raw.To
	}
	return nil
}

// NodeCount returns the number of nodes as written, duplicates included.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges as written.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Labels maps node IDs to display labels.
func (g Graph) Labels() map[string]string {
	out := make(map[string]string, len(g.Nodes))
	for i := range g.Nodes {
		if _, ok := out[g.Nodes[i].ID]; !ok {
			out[g.Nodes[i].ID] = g.Nodes[i].DisplayLabel()
		}
	}
	return out
}

// =============================================================================
// Graph ↔ adjacency conversion
// =============================================================================

// Adjacency converts g into the engine's input form. Metadata is dropped.
func (g Graph) Adjacency() adjacency.Graph {
	out := adjacency.Graph{
		Nodes: make([]adjacency.Node, len(g.Nodes)),
		Edges: make([]adjacency.Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = adjacency.Node{ID: n.ID, Label: n.Label, X: n.X, Y: n.Y}
	}
	for i, e := range g.Edges {
		out.Edges[i] = adjacency.Edge{Source: e.Source, Target: e.Target}
	}
	return out
}

// Model builds the adjacency model for g.
func (g Graph) Model() *adjacency.Model {
	return adjacency.FromGraph(g.Adjacency())
}

// FromAdjacency converts an engine graph back to its serialization form.
func FromAdjacency(a adjacency.Graph) Graph {
	out := Graph{
		Nodes: make([]Node, len(a.Nodes)),
		Edges: make([]Edge, len(a.Edges)),
	}
	for i, n := range a.Nodes {
		out.Nodes[i] = Node{ID: n.ID, Label: n.Label, X: n.X, Y: n.Y}
	}
	for i, e := range a.Edges {
		out.Edges[i] = Edge{Source: e.Source, Target: e.Target}
	}
	return out
}

// =============================================================================
// Coloring - Assignment Serialization
// =============================================================================

// Coloring is the serialization format for color assignments. It embeds
// the assignment and adds the hex color per node for consumers that do not
// want to index the palette themselves.
type Coloring struct {
	coloring.Assignment
	Fills map[string]string `json:"fills,omitempty"`
}

// NewColoring wraps an assignment for output.
func NewColoring(a coloring.Assignment) Coloring {
	c := Coloring{Assignment: a.Clone(), Fills: make(map[string]string, len(a.Colors))}
	for id := range a.Colors {
		if h := a.Hex(id); h != "" {
			c.Fills[id] = h
		}
	}
	return c
}

// ConstraintSet is the serialization format for constraint files.
type ConstraintSet struct {
	Constraints []coloring.Constraint `json:"constraints"`
}
