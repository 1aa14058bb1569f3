package coloring

import (
	"maps"
	"slices"
	"strings"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
)

// Algorithm names accepted by [Lookup] and [Color].
const (
	NameGreedy       = "greedy"
	NameDSATUR       = "dsatur"
	NameWelshPowell  = "welsh-powell"
	NameBacktracking = "backtracking"
)

// Algorithm computes a color assignment for an adjacency model.
//
// Implementations must respect opts.Constraints, never recolor a pinned
// node, and report an unsatisfiable budget through Assignment.Valid rather
// than an error.
type Algorithm interface {
	Name() string
	Color(m *adjacency.Model, opts Options) Assignment
}

var registry = map[string]Algorithm{
	NameGreedy:       Greedy{},
	NameDSATUR:       DSATUR{},
	NameWelshPowell:  WelshPowell{},
	NameBacktracking: Backtracking{},
}

// Lookup returns the algorithm registered under name. Matching ignores case
// and surrounding space. For an unknown name it returns Greedy and false.
func Lookup(name string) (Algorithm, bool) {
	if a, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return a, true
	}
	return Greedy{}, false
}

// Names returns every registered algorithm name in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Color dispatches to the algorithm named by opts.Algorithm, falling back
// to Greedy on an unknown or empty name.
func Color(m *adjacency.Model, opts Options) Assignment {
	alg, _ := Lookup(opts.Algorithm)
	return alg.Color(m, opts)
}

// emptyResult is the trivially valid answer for a graph with no nodes.
func emptyResult(name string) Assignment {
	a := Empty()
	a.Valid = true
	a.Algorithm = name
	return a
}
