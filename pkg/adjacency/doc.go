// Package adjacency normalizes node and edge lists into a symmetric
// adjacency matrix, the shared substrate every coloring algorithm reads.
//
// # Overview
//
// Loaders hand over a [Graph]: an ordered list of nodes and an edge list
// keyed by node ID. [Build] turns that into a [Model] whose rows and columns
// follow node order. The matrix is symmetric with a false diagonal, so
// algorithms can treat position i and j interchangeably.
//
// # Leniency
//
// Real-world uploads are messy. Build drops edges that reference unknown
// IDs, drops self-loops and collapses duplicate edges instead of returning
// an error:
//
//	m := adjacency.Build(
//	    []adjacency.Node{{ID: "a"}, {ID: "b"}},
//	    []adjacency.Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "zzz"}},
//	)
//	m.EdgeCount() // 1
//
// A Model is never mutated after Build; load a new graph to get a new Model.
package adjacency
