package adjacency_test

import (
	"fmt"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
)

func ExampleBuild() {
	m := adjacency.Build(
		[]adjacency.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]adjacency.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "missing"}, // dropped
		},
	)
	fmt.Println("nodes:", m.Len())
	fmt.Println("edges:", m.EdgeCount())
	fmt.Println("degrees:", m.Degrees())
	// Output:
	// nodes: 3
	// edges: 2
	// degrees: [1 2 1]
}
