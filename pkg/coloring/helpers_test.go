package coloring

import (
	"fmt"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
)

func ids(n int) []adjacency.Node {
	out := make([]adjacency.Node, n)
	for i := range out {
		out[i] = adjacency.Node{ID: fmt.Sprintf("n%d", i)}
	}
	return out
}

func edge(a, b int) adjacency.Edge {
	return adjacency.Edge{Source: fmt.Sprintf("n%d", a), Target: fmt.Sprintf("n%d", b)}
}

// complete returns K_n.
func complete(n int) *adjacency.Model {
	var es []adjacency.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			es = append(es, edge(i, j))
		}
	}
	return adjacency.Build(ids(n), es)
}

// cycle returns C_n.
func cycle(n int) *adjacency.Model {
	var es []adjacency.Edge
	for i := 0; i < n; i++ {
		es = append(es, edge(i, (i+1)%n))
	}
	return adjacency.Build(ids(n), es)
}

// wheel returns a hub (n0) joined to every node of a rim cycle of size n.
func wheel(n int) *adjacency.Model {
	var es []adjacency.Edge
	for i := 1; i <= n; i++ {
		es = append(es, edge(0, i))
		next := i%n + 1
		es = append(es, edge(i, next))
	}
	return adjacency.Build(ids(n+1), es)
}

// twoTriangles returns two disjoint triangles n0-n1-n2 and n3-n4-n5.
func twoTriangles() *adjacency.Model {
	return adjacency.Build(ids(6), []adjacency.Edge{
		edge(0, 1), edge(1, 2), edge(2, 0),
		edge(3, 4), edge(4, 5), edge(5, 3),
	})
}

// crown returns the crown graph on 2n nodes (K_{n,n} minus a perfect
// matching) with u_i and v_i interleaved, the classic greedy worst case.
func crown(n int) *adjacency.Model {
	var es []adjacency.Edge
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				es = append(es, edge(2*i, 2*j+1))
			}
		}
	}
	return adjacency.Build(ids(2*n), es)
}

// petersen returns the Petersen graph (chromatic number 3).
func petersen() *adjacency.Model {
	var es []adjacency.Edge
	for i := 0; i < 5; i++ {
		es = append(es, edge(i, (i+1)%5))     // outer cycle
		es = append(es, edge(i, i+5))         // spokes
		es = append(es, edge(5+i, 5+(i+2)%5)) // inner pentagram
	}
	return adjacency.Build(ids(10), es)
}

var allAlgorithms = []Algorithm{Greedy{}, WelshPowell{}, DSATUR{}, Backtracking{}}
