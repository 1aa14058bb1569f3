// Package engine is the single integration point for coloring sessions.
//
// An [Engine] owns one adjacency model, the current color assignment and a
// bounded undo/redo history. Loaders hand it an [adjacency.Graph]; renderers
// read back the assignment. Every mutating call pushes a [Snapshot]:
//
//	e := engine.New(engine.WithHistorySize(20))
//	e.LoadGraph(g)                                   // "Load" baseline
//	a, err := e.ComputeColoring(coloring.Options{Algorithm: "dsatur"})
//	e.AssignColor("WA", 2)                           // manual edit
//	e.Undo()                                         // back to the dsatur result
//
// Operations that need a graph return an error with code NO_GRAPH_LOADED
// when none is loaded. Undo and Redo report a no-op with false instead of
// an error.
//
// [Engine.ChromaticNumber] assumes a planar input and caps its search at four
// colors. [Engine.Statistics] reports the edges <= 3n-6 condition, which is
// necessary but not sufficient for planarity.
package engine
