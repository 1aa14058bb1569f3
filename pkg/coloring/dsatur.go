package coloring

import "github.com/franzenjb/fourcolor/pkg/adjacency"

// DSATUR picks, at every step, the uncolored node with the highest
// saturation degree (distinct colors among its neighbors). Ties go to the
// higher raw degree, then to the node earliest in the base order. The
// chosen node takes its smallest free color.
//
// Saturation is recomputed from scratch each step because every coloring
// changes the saturation of the chosen node's neighbors.
type DSATUR struct{}

// Name returns "dsatur".
func (DSATUR) Name() string { return NameDSATUR }

// Color implements [Algorithm].
func (d DSATUR) Color(m *adjacency.Model, opts Options) Assignment {
	if m.Len() == 0 {
		return emptyResult(d.Name())
	}
	s := newState(m, opts.withDefaults())
	for !s.failed {
		i := s.mostSaturated()
		if i == unassigned {
			break
		}
		c := s.smallestFree(i)
		if c == unassigned {
			s.failed = true
			break
		}
		s.colors[i] = c
	}
	return s.result(d.Name())
}

// mostSaturated returns the next DSATUR node, or unassigned when every node
// is colored.
func (s *state) mostSaturated() int {
	best, bestSat, bestDeg := unassigned, -1, -1
	for _, i := range s.order {
		if s.colors[i] != unassigned {
			continue
		}
		sat, deg := s.saturation(i), s.m.Degree(i)
		if sat > bestSat || (sat == bestSat && deg > bestDeg) {
			best, bestSat, bestDeg = i, sat, deg
		}
	}
	return best
}
