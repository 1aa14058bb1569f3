package coloring

import (
	"slices"
	"time"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
)

// checkEvery is how many node visits pass between wall-clock checks.
const checkEvery = 1024

// Backtracking is an exact search bounded by Options.MaxSteps and
// Options.Timeout.
//
// Nodes are visited in descending degree order. A greedy pass colors what
// it can; depth-first search with forward checking then starts at the first
// node the greedy pass left unresolved, retrying every later non-pinned
// node. If that suffix search is exhausted the search widens to the whole
// order. Colors are tried in order 0..MaxColors-1.
//
// When the budget runs out or no coloring exists, the greedy colors are
// kept, remaining nodes fall back to color 0, Exhausted is set and Valid is
// decided by [Validate].
type Backtracking struct{}

// Name returns "backtracking".
func (Backtracking) Name() string { return NameBacktracking }

// Color implements [Algorithm].
func (b Backtracking) Color(m *adjacency.Model, opts Options) Assignment {
	if m.Len() == 0 {
		return emptyResult(b.Name())
	}
	opts = opts.withDefaults()
	s := newState(m, opts)
	if s.failed {
		return s.result(b.Name())
	}

	order := s.byDegree()
	for _, i := range order {
		if s.colors[i] == unassigned {
			s.colors[i] = s.smallestFree(i)
		}
	}
	start := slices.IndexFunc(order, func(i int) bool { return s.colors[i] == unassigned })
	if start < 0 {
		return s.result(b.Name())
	}
	prefill := slices.Clone(s.colors)

	sr := newSearch(s, order, opts)
	solved := sr.run(start)
	if !solved && !sr.aborted && start > 0 {
		solved = sr.run(0)
	}
	if solved {
		return s.result(b.Name())
	}

	copy(s.colors, prefill)
	for i, c := range s.colors {
		if c == unassigned {
			s.colors[i] = 0
		}
	}
	a := s.result(b.Name())
	a.Exhausted = true
	return a
}

// search holds forward-checking bookkeeping for one Backtracking run.
// blocked[i][c] counts colored neighbors of i using c; free[i] is the
// number of colors still open to i.
type search struct {
	s        *state
	order    []int
	blocked  [][]int
	free     []int
	steps    int
	maxSteps int
	deadline time.Time
	aborted  bool
}

func newSearch(s *state, order []int, opts Options) *search {
	sr := &search{s: s, order: order, maxSteps: opts.MaxSteps}
	if opts.Timeout > 0 {
		sr.deadline = time.Now().Add(opts.Timeout)
	}
	return sr
}

// run clears every non-pinned node from position from onward and searches
// for a complete consistent coloring.
func (sr *search) run(from int) bool {
	s := sr.s
	for _, i := range sr.order[from:] {
		if !s.pinned[i] {
			s.colors[i] = unassigned
		}
	}
	sr.rebuild()
	return sr.solve(from)
}

// rebuild recomputes blocked and free from the current colors.
func (sr *search) rebuild() {
	s := sr.s
	n := s.m.Len()
	sr.blocked = make([][]int, n)
	sr.free = make([]int, n)
	for i := range n {
		sr.blocked[i] = make([]int, s.k)
	}
	for i := range n {
		if c := s.colors[i]; c != unassigned {
			for _, j := range s.m.Neighbors(i) {
				sr.blocked[j][c]++
			}
		}
	}
	for i := range n {
		for c := 0; c < s.k; c++ {
			if sr.open(i, c) {
				sr.free[i]++
			}
		}
	}
}

func (sr *search) open(i, c int) bool {
	return sr.blocked[i][c] == 0 && !sr.s.forbidden[i][c]
}

func (sr *search) budgetSpent() bool {
	if sr.aborted {
		return true
	}
	sr.steps++
	if sr.steps > sr.maxSteps {
		sr.aborted = true
	} else if !sr.deadline.IsZero() && sr.steps%checkEvery == 0 && time.Now().After(sr.deadline) {
		sr.aborted = true
	}
	return sr.aborted
}

func (sr *search) solve(pos int) bool {
	s := sr.s
	for pos < len(sr.order) && s.colors[sr.order[pos]] != unassigned {
		pos++
	}
	if pos == len(sr.order) {
		return true
	}
	if sr.budgetSpent() {
		return false
	}

	i := sr.order[pos]
	for c := 0; c < s.k; c++ {
		if !sr.open(i, c) {
			continue
		}
		ok := sr.assign(i, c)
		if ok && sr.solve(pos+1) {
			return true
		}
		sr.unassign(i, c)
		if sr.aborted {
			return false
		}
	}
	return false
}

// assign colors node i with c and updates its uncolored neighbors. It
// reports false when some uncolored neighbor has no color left; the
// caller must still unassign.
func (sr *search) assign(i, c int) bool {
	s := sr.s
	s.colors[i] = c
	ok := true
	for _, j := range s.m.Neighbors(i) {
		if sr.open(j, c) {
			sr.free[j]--
		}
		sr.blocked[j][c]++
		if s.colors[j] == unassigned && sr.free[j] == 0 {
			ok = false
		}
	}
	return ok
}

func (sr *search) unassign(i, c int) {
	s := sr.s
	s.colors[i] = unassigned
	for _, j := range s.m.Neighbors(i) {
		sr.blocked[j][c]--
		if sr.open(j, c) {
			sr.free[j]++
		}
	}
}
