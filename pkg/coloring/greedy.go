package coloring

import "github.com/franzenjb/fourcolor/pkg/adjacency"

// Greedy colors nodes in input order, giving each the smallest color not
// used by an already-colored neighbor. It fails on the first node with no
// free color in the budget.
type Greedy struct{}

// Name returns "greedy".
func (Greedy) Name() string { return NameGreedy }

// Color implements [Algorithm].
func (g Greedy) Color(m *adjacency.Model, opts Options) Assignment {
	if m.Len() == 0 {
		return emptyResult(g.Name())
	}
	s := newState(m, opts.withDefaults())
	s.colorInOrder(s.order)
	return s.result(g.Name())
}

// WelshPowell colors nodes in descending degree order (stable on ties) with
// the greedy smallest-free-color rule. Handling the most connected nodes
// first reduces late color exhaustion.
type WelshPowell struct{}

// Name returns "welsh-powell".
func (WelshPowell) Name() string { return NameWelshPowell }

// Color implements [Algorithm].
func (w WelshPowell) Color(m *adjacency.Model, opts Options) Assignment {
	if m.Len() == 0 {
		return emptyResult(w.Name())
	}
	s := newState(m, opts.withDefaults())
	s.colorInOrder(s.byDegree())
	return s.result(w.Name())
}
