// Package graph provides serialization types for graphs, colorings and
// constraint sets.
//
// This package defines the canonical wire format for fourcolor's data,
// used for JSON files, API request and response bodies, session storage and
// cache keys.
//
// # Architecture
//
// The package sits at the serialization boundary between external formats
// and the engine:
//
//   - [Graph], [Node], [Edge]: Serialization types (this package)
//   - adjacency.Graph: Engine input, see [Graph.Adjacency]
//   - coloring.Assignment: Engine output, wrapped by [Coloring]
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "WA", "label": "Western Australia"}, {"id": "NT"}],
//	  "edges": [{"source": "WA", "target": "NT"}]
//	}
//
// Edges may use "from"/"to" instead of "source"/"target". Edges naming an
// unknown node are accepted here and dropped when the adjacency model is
// built.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("map.json")     // File → Graph
//	graph.WriteGraphFile(g, "output.json")      // Graph → File
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//	a, _ := graph.ReadColoringFile("out.json")  // File → Assignment
//
// # Samples
//
// [Sample] returns built-in graphs for demos and tests: a triangle, K4,
// two disjoint triangles, the Australia map, the Petersen graph, an odd
// wheel and a triangulated grid.
package graph
