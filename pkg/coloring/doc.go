// Package coloring computes and checks color assignments over an
// [adjacency.Model].
//
// # Algorithms
//
// Four interchangeable strategies implement [Algorithm]:
//
//   - [Greedy]: input order, smallest free color
//   - [WelshPowell]: descending degree order, smallest free color
//   - [DSATUR]: dynamic order by saturation degree, recomputed every step
//   - [Backtracking]: exact depth-first search with forward checking,
//     bounded by a step budget and an optional timeout
//
// [Lookup] maps a name to an implementation and falls back to Greedy for
// unknown names; [Color] dispatches on Options.Algorithm directly.
//
//	a := coloring.Color(m, coloring.Options{Algorithm: "dsatur", MaxColors: 4})
//	if !a.Valid {
//	    // no coloring within the budget
//	}
//
// # Failure Is Data
//
// No strategy returns an error. Greedy, Welsh-Powell and DSATUR return an
// invalid assignment with an empty mapping the first time a node has no
// free color. Backtracking keeps searching and, once its budget is spent,
// returns a fallback-filled mapping with Exhausted set; its Valid flag is
// always the verdict of [Validate], never an assumption.
//
// # Palettes
//
// Assignments carry a palette sized to the largest index used plus one.
// The first four entries come from [BasePalette]; further entries are
// evenly spaced hues.
package coloring
