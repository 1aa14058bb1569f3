// Package pkg provides the core libraries for fourcolor graph and map coloring.
//
// # Overview
//
// Fourcolor assigns colors to the nodes of an undirected graph so that no two
// adjacent nodes share a color. Maps are handled the same way: every region
// is a node and every shared border is an edge. The pkg directory is
// organized into three areas:
//
//  1. Domain logic: [adjacency], [coloring], [history], [engine]
//  2. Serialization and rendering: [graph], [render/nodelink]
//  3. Infrastructure: [pipeline], [cache], [session], [config], [server]
//
// # Architecture
//
// The typical data flow:
//
//	graph JSON (file, sample, URL or API body)
//	         ↓
//	    [graph] package (decode, validate)
//	         ↓
//	    [adjacency] package (dense model with degrees)
//	         ↓
//	    [coloring] package (greedy, DSATUR, Welsh-Powell, backtracking)
//	         ↓
//	    [engine] package (history, undo/redo, statistics)
//	         ↓
//	    coloring JSON, DOT, SVG or PNG
//
// # Quick Start
//
//	g, _ := graph.ReadGraphFile("australia.json")
//
//	e := engine.New(engine.WithHistorySize(50))
//	e.LoadGraph(g.Adjacency())
//
//	a, _ := e.ComputeColoring(coloring.Options{Algorithm: "dsatur"})
//	fmt.Println(a.Chromatic, a.Valid)
//
//	e.AssignColor("WA", 2)
//	e.Undo()
//
// # Main Packages
//
// [adjacency] - Immutable adjacency-matrix model built from node and edge
// lists. Unknown endpoints and self-loops are dropped.
//
// [coloring] - Coloring algorithms, constraints, palettes and validation.
// Every algorithm returns an [coloring.Assignment] with its validity.
//
// [history] - Bounded undo/redo stack of snapshots.
//
// [engine] - Stateful coloring session: one loaded graph, a current
// assignment, history and statistics.
//
// [pipeline] - Color, stats and render steps with content-addressed caching,
// shared by the CLI and the API server.
//
// [session] - Persisted engine state with file and MongoDB stores.
//
// [server] - HTTP API over engine sessions.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/coloring/... # Specific package
//	go test -run Example       # Examples only
//
// [adjacency]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/adjacency
// [coloring]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/coloring
// [coloring.Assignment]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/coloring#Assignment
// [history]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/history
// [engine]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/engine
// [graph]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/cache
// [session]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/session
// [config]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/config
// [server]: https://pkg.go.dev/github.com/franzenjb/fourcolor/pkg/server
package pkg
