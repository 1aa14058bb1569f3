package engine

import (
	"github.com/franzenjb/fourcolor/pkg/adjacency"
	"github.com/franzenjb/fourcolor/pkg/coloring"
)

// State is the persistable form of an engine: the loaded graph, the
// current assignment and the full history with its cursor.
type State struct {
	Graph   adjacency.Graph     `json:"graph" bson:"graph"`
	Current coloring.Assignment `json:"current" bson:"current"`
	History []Snapshot          `json:"history" bson:"history"`
	Cursor  int                 `json:"cursor" bson:"cursor"`
}

// State captures a deep copy of the engine.
func (e *Engine) State() State {
	entries, cursor := e.History()
	return State{
		Graph:   e.Graph(),
		Current: e.Current(),
		History: entries,
		Cursor:  cursor,
	}
}

// Restore replaces the engine's graph, assignment and history with st.
// History beyond the engine's capacity keeps only the newest snapshots; an
// out-of-range cursor is clamped. An empty history gets a "Load" baseline,
// unless the graph is empty too: that is the state of an engine that never
// loaded a graph, and it restores as unloaded.
func (e *Engine) Restore(st State) {
	if len(st.History) == 0 && len(st.Graph.Nodes) == 0 {
		e.graph = adjacency.Graph{}
		e.model = nil
		e.chromatic = -1
		e.current = coloring.Empty()
		e.history.Clear()
		return
	}
	e.graph = adjacency.Graph{
		Nodes: append([]adjacency.Node(nil), st.Graph.Nodes...),
		Edges: append([]adjacency.Edge(nil), st.Graph.Edges...),
	}
	e.model = adjacency.FromGraph(st.Graph)
	e.chromatic = -1
	e.current = st.Current.Clone()
	e.history.Clear()

	if len(st.History) == 0 {
		e.push(LabelLoad)
		return
	}
	for _, s := range st.History {
		e.history.Push(s)
	}
	dropped := len(st.History) - e.history.Len()
	target := min(max(st.Cursor-dropped, 0), e.history.Len()-1)
	for e.history.Cursor() > target {
		e.history.Undo()
	}
}
