package graph

import (
	"fmt"
	"maps"
	"slices"
)

// samples holds the built-in graphs, keyed by name.
var samples = map[string]func() Graph{
	"triangle":      triangle,
	"k4":            func() Graph { return complete(4) },
	"two-triangles": twoTriangles,
	"australia":     australia,
	"petersen":      petersen,
	"wheel":         func() Graph { return wheel(5) },
	"grid":          func() Graph { return grid(4, 4) },
}

// Sample returns a fresh copy of the named built-in graph.
func Sample(name string) (Graph, bool) {
	build, ok := samples[name]
	if !ok {
		return Graph{}, false
	}
	return build(), true
}

// SampleNames returns the built-in graph names in sorted order.
func SampleNames() []string {
	return slices.Sorted(maps.Keys(samples))
}

func fromPairs(nodes []Node, pairs [][2]string) Graph {
	g := Graph{Nodes: nodes, Edges: make([]Edge, len(pairs))}
	for i, p := range pairs {
		g.Edges[i] = Edge{Source: p[0], Target: p[1]}
	}
	return g
}

func numbered(n int) []Node {
	out := make([]Node, n)
	for i := range out {
		out[i] = Node{ID: fmt.Sprintf("n%d", i)}
	}
	return out
}

func triangle() Graph {
	return fromPairs(
		[]Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	)
}

func complete(n int) Graph {
	g := Graph{Nodes: numbered(n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.Edges = append(g.Edges, Edge{Source: g.Nodes[i].ID, Target: g.Nodes[j].ID})
		}
	}
	return g
}

func twoTriangles() Graph {
	return fromPairs(
		[]Node{{ID: "a1"}, {ID: "b1"}, {ID: "c1"}, {ID: "a2"}, {ID: "b2"}, {ID: "c2"}},
		[][2]string{
			{"a1", "b1"}, {"b1", "c1"}, {"c1", "a1"},
			{"a2", "b2"}, {"b2", "c2"}, {"c2", "a2"},
		},
	)
}

// australia is the mainland states and territories plus Tasmania, which
// borders nothing.
func australia() Graph {
	return fromPairs(
		[]Node{
			{ID: "WA", Label: "Western Australia", X: 1, Y: 3},
			{ID: "NT", Label: "Northern Territory", X: 3, Y: 1},
			{ID: "SA", Label: "South Australia", X: 3, Y: 4},
			{ID: "Q", Label: "Queensland", X: 5, Y: 1},
			{ID: "NSW", Label: "New South Wales", X: 6, Y: 4},
			{ID: "V", Label: "Victoria", X: 5, Y: 6},
			{ID: "T", Label: "Tasmania", X: 6, Y: 8},
		},
		[][2]string{
			{"WA", "NT"}, {"WA", "SA"},
			{"NT", "SA"}, {"NT", "Q"},
			{"SA", "Q"}, {"SA", "NSW"}, {"SA", "V"},
			{"Q", "NSW"},
			{"NSW", "V"},
		},
	)
}

func petersen() Graph {
	g := Graph{Nodes: numbered(10)}
	id := func(i int) string { return g.Nodes[i].ID }
	for i := 0; i < 5; i++ {
		g.Edges = append(g.Edges,
			Edge{Source: id(i), Target: id((i + 1) % 5)},
			Edge{Source: id(i), Target: id(i + 5)},
			Edge{Source: id(5 + i), Target: id(5 + (i+2)%5)},
		)
	}
	return g
}

// wheel is a hub joined to every node of an n-cycle. With an odd rim it
// needs four colors.
func wheel(n int) Graph {
	g := Graph{Nodes: append([]Node{{ID: "hub"}}, numbered(n)...)}
	for i := 0; i < n; i++ {
		rim := g.Nodes[1+i].ID
		g.Edges = append(g.Edges,
			Edge{Source: "hub", Target: rim},
			Edge{Source: rim, Target: g.Nodes[1+(i+1)%n].ID},
		)
	}
	return g
}

// grid is a rows×cols block map where each cell also touches its
// down-right neighbour, so every 2×2 block is a K4 minus one edge and the
// map needs three colors.
func grid(rows, cols int) Graph {
	id := func(r, c int) string { return fmt.Sprintf("r%dc%d", r, c) }
	var g Graph
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Nodes = append(g.Nodes, Node{ID: id(r, c), X: float64(c), Y: float64(r)})
			if c+1 < cols {
				g.Edges = append(g.Edges, Edge{Source: id(r, c), Target: id(r, c+1)})
			}
			if r+1 < rows {
				g.Edges = append(g.Edges, Edge{Source: id(r, c), Target: id(r+1, c)})
			}
			if r+1 < rows && c+1 < cols {
				g.Edges = append(g.Edges, Edge{Source: id(r, c), Target: id(r+1, c+1)})
			}
		}
	}
	return g
}
