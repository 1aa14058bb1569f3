package adjacency

import (
	"slices"
	"testing"
)

func nodes(ids ...string) []Node {
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{ID: id}
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []Node
		edges     []Edge
		wantLen   int
		wantEdges int
		wantDeg   []int
	}{
		{
			name:      "Empty",
			wantLen:   0,
			wantEdges: 0,
			wantDeg:   []int{},
		},
		{
			name:      "Triangle",
			nodes:     nodes("a", "b", "c"),
			edges:     []Edge{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			wantLen:   3,
			wantEdges: 3,
			wantDeg:   []int{2, 2, 2},
		},
		{
			name:      "UnknownEndpointsDropped",
			nodes:     nodes("a", "b"),
			edges:     []Edge{{"a", "b"}, {"a", "ghost"}, {"ghost", "b"}},
			wantLen:   2,
			wantEdges: 1,
			wantDeg:   []int{1, 1},
		},
		{
			name:      "DuplicateEdgesCollapse",
			nodes:     nodes("a", "b"),
			edges:     []Edge{{"a", "b"}, {"b", "a"}, {"a", "b"}},
			wantLen:   2,
			wantEdges: 1,
			wantDeg:   []int{1, 1},
		},
		{
			name:      "SelfLoopDropped",
			nodes:     nodes("a", "b"),
			edges:     []Edge{{"a", "a"}, {"a", "b"}},
			wantLen:   2,
			wantEdges: 1,
			wantDeg:   []int{1, 1},
		},
		{
			name:      "DuplicateNodeFirstWins",
			nodes:     nodes("a", "b", "a"),
			edges:     []Edge{{"a", "b"}},
			wantLen:   2,
			wantEdges: 1,
			wantDeg:   []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(tt.nodes, tt.edges)
			if got := m.Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
			if got := m.EdgeCount(); got != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", got, tt.wantEdges)
			}
			if got := m.Degrees(); !slices.Equal(got, tt.wantDeg) {
				t.Errorf("Degrees() = %v, want %v", got, tt.wantDeg)
			}
		})
	}
}

func TestBuildSymmetricNoDiagonal(t *testing.T) {
	m := Build(nodes("a", "b", "c", "d"), []Edge{{"a", "b"}, {"c", "b"}, {"d", "a"}, {"d", "d"}})
	for i := 0; i < m.Len(); i++ {
		if m.Adjacent(i, i) {
			t.Errorf("diagonal [%d][%d] is true", i, i)
		}
		for j := 0; j < m.Len(); j++ {
			if m.Adjacent(i, j) != m.Adjacent(j, i) {
				t.Errorf("asymmetric at [%d][%d]", i, j)
			}
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	ns := nodes("x", "y", "z")
	es := []Edge{{"x", "y"}, {"y", "z"}}
	a := Build(ns, es).Matrix()
	b := Build(ns, es).Matrix()
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			t.Fatalf("row %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestModelAccessors(t *testing.T) {
	m := Build(nodes("a", "b", "c"), []Edge{{"a", "c"}, {"b", "c"}})

	if i, ok := m.Index("c"); !ok || i != 2 {
		t.Errorf("Index(c) = %d, %v; want 2, true", i, ok)
	}
	if m.Has("ghost") {
		t.Error("Has(ghost) = true, want false")
	}
	if got := m.ID(1); got != "b" {
		t.Errorf("ID(1) = %q, want b", got)
	}
	if got := m.Neighbors(2); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Neighbors(2) = %v, want [0 1]", got)
	}
	if got := m.Edges(); len(got) != 2 || got[0] != [2]int{0, 2} || got[1] != [2]int{1, 2} {
		t.Errorf("Edges() = %v, want [[0 2] [1 2]]", got)
	}

	ids := m.IDs()
	ids[0] = "mutated"
	if m.ID(0) != "a" {
		t.Error("IDs() must return a copy")
	}
}

func TestNilModel(t *testing.T) {
	var m *Model
	if m.Len() != 0 || m.EdgeCount() != 0 || m.Has("a") {
		t.Error("nil model should behave as empty")
	}
}
