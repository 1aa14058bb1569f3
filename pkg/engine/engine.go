package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/history"
	"github.com/franzenjb/fourcolor/pkg/observability"
)

// DefaultHistorySize is the number of snapshots kept when no size is given.
const DefaultHistorySize = history.DefaultCapacity

// Snapshot labels.
const (
	LabelLoad   = "Load"
	LabelReset  = "Reset"
	LabelManual = "manual"
)

// Snapshot is an immutable copy of the engine's coloring at one point in
// time.
type Snapshot struct {
	ID         uuid.UUID           `json:"id" bson:"id"`
	Label      string              `json:"label" bson:"label"`
	Time       time.Time           `json:"time" bson:"time"`
	Assignment coloring.Assignment `json:"assignment" bson:"assignment"`
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.Assignment = s.Assignment.Clone()
	return s
}

// Engine owns one adjacency model, the current assignment, and a bounded
// undo/redo history.
//
// Every mutating call pushes a snapshot. Engines never share state, but a
// single Engine is not safe for concurrent use; callers that share one must
// serialize access.
type Engine struct {
	graph   adjacency.Graph
	model   *adjacency.Model
	current coloring.Assignment
	history *history.Manager[Snapshot]

	// chromatic caches ChromaticNumber for the loaded model; -1 when unknown.
	chromatic int

	defaults coloring.Options
	logger   *log.Logger
	hooks    observability.ColoringHooks
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistorySize sets the history capacity. Non-positive sizes select
// DefaultHistorySize.
func WithHistorySize(n int) Option {
	return func(e *Engine) {
		e.history = history.New(n, cloneSnapshot)
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks overrides the globally registered coloring hooks.
func WithHooks(h observability.ColoringHooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithDefaults sets options merged into every ComputeColoring call for
// fields the caller leaves zero. A default Randomize cannot be switched off
// per call.
func WithDefaults(opts coloring.Options) Option {
	return func(e *Engine) { e.defaults = opts }
}

// WithClock replaces time.Now for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine with no graph loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		current:   coloring.Empty(),
		history:   history.New(DefaultHistorySize, cloneSnapshot),
		chromatic: -1,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		hooks:     observability.Coloring(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// Graph lifecycle
// =============================================================================

// LoadGraph replaces the model with one built from g. The current
// assignment becomes empty and invalid, history is cleared, and a "Load"
// baseline snapshot is pushed. Loading is not undoable back to the previous
// graph.
func (e *Engine) LoadGraph(g adjacency.Graph) {
	e.graph = adjacency.Graph{
		Nodes: append([]adjacency.Node(nil), g.Nodes...),
		Edges: append([]adjacency.Edge(nil), g.Edges...),
	}
	e.model = adjacency.FromGraph(g)
	e.chromatic = -1
	e.current = coloring.Empty()
	e.history.Clear()
	e.push(LabelLoad)

	e.logger.Debug("loaded graph", "nodes", e.model.Len(), "edges", e.model.EdgeCount())
}

// Loaded reports whether a graph has been loaded.
func (e *Engine) Loaded() bool { return e.model != nil }

// Model returns the loaded adjacency model, or nil.
func (e *Engine) Model() *adjacency.Model { return e.model }

// Graph returns the graph last passed to LoadGraph.
func (e *Engine) Graph() adjacency.Graph { return e.graph }

// Current returns a copy of the current assignment.
func (e *Engine) Current() coloring.Assignment { return e.current.Clone() }

// =============================================================================
// Mutations
// =============================================================================

// ComputeColoring runs the algorithm named by opts.Algorithm (unknown names
// fall back to greedy), stores the result as current and pushes a snapshot
// labelled with the algorithm name. An unsatisfiable budget is reported
// through the assignment's Valid flag, not as an error.
func (e *Engine) ComputeColoring(opts coloring.Options) (coloring.Assignment, error) {
	if e.model == nil {
		return coloring.Empty(), errors.NoGraph("compute coloring")
	}
	opts = e.merge(opts)
	alg, known := coloring.Lookup(opts.Algorithm)
	if !known && opts.Algorithm != "" {
		e.logger.Warn("unknown algorithm, using greedy", "algorithm", opts.Algorithm)
	}

	ctx := context.Background()
	e.hooks.OnColorStart(ctx, alg.Name(), e.model.Len())
	start := time.Now()
	a := alg.Color(e.model, opts)
	elapsed := time.Since(start)
	e.hooks.OnColorComplete(ctx, alg.Name(), a.Chromatic, a.Valid, elapsed)

	e.logger.Debug("computed coloring",
		"algorithm", alg.Name(),
		"colors", a.Chromatic,
		"valid", a.Valid,
		"exhausted", a.Exhausted,
		"duration", elapsed)

	e.current = a
	e.push(alg.Name())
	return a.Clone(), nil
}

func (e *Engine) merge(opts coloring.Options) coloring.Options {
	d := e.defaults
	if opts.Algorithm == "" {
		opts.Algorithm = d.Algorithm
	}
	if opts.MaxColors == 0 {
		opts.MaxColors = d.MaxColors
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = d.MaxSteps
	}
	if opts.Timeout == 0 {
		opts.Timeout = d.Timeout
	}
	if opts.Constraints == nil {
		opts.Constraints = d.Constraints
	}
	if !opts.Randomize {
		opts.Randomize = d.Randomize
	}
	if opts.Seed == 0 {
		opts.Seed = d.Seed
	}
	return opts
}

// AssignColor sets nodeID to color by hand and revalidates the whole
// assignment. A negative color clears the node; a color at or above
// [coloring.MaxColorLimit] is rejected with INVALID_INPUT and leaves the
// current assignment untouched. Unknown node IDs are accepted; their entry
// never matches an adjacency row.
func (e *Engine) AssignColor(nodeID string, color int) (coloring.Assignment, error) {
	if e.model == nil {
		return coloring.Empty(), errors.NoGraph("assign color")
	}
	if err := errors.ValidateColorIndex(color); err != nil {
		return e.Current(), err
	}
	colors := e.current.Clone().Colors
	if color < 0 {
		delete(colors, nodeID)
	} else {
		colors[nodeID] = color
	}
	if !e.model.Has(nodeID) {
		e.logger.Debug("assigned color to unknown node", "node", nodeID)
	}

	a := coloring.Evaluate(e.model, colors)
	a.Algorithm = LabelManual
	e.current = a
	e.push(fmt.Sprintf("Assign %s=%d", nodeID, color))
	return a.Clone(), nil
}

// Undo restores the previous snapshot. It returns false and leaves the
// current assignment untouched when there is nothing to undo.
func (e *Engine) Undo() (coloring.Assignment, bool) {
	s, ok := e.history.Undo()
	if !ok {
		return e.Current(), false
	}
	e.current = s.Assignment
	e.hooks.OnHistory(context.Background(), "undo", e.history.Cursor(), e.history.Len())
	return e.Current(), true
}

// Redo re-applies the snapshot after the cursor. It returns false when the
// cursor is already at the newest snapshot.
func (e *Engine) Redo() (coloring.Assignment, bool) {
	s, ok := e.history.Redo()
	if !ok {
		return e.Current(), false
	}
	e.current = s.Assignment
	e.hooks.OnHistory(context.Background(), "redo", e.history.Cursor(), e.history.Len())
	return e.Current(), true
}

// CanUndo reports whether Undo would change state.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change state.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Reset clears the current assignment and the history, then pushes a
// single "Reset" baseline. Reset is undoable only back to that baseline.
func (e *Engine) Reset() {
	e.current = coloring.Empty()
	e.history.Clear()
	e.push(LabelReset)
}

// History returns copies of every snapshot, oldest first, and the cursor.
func (e *Engine) History() ([]Snapshot, int) {
	return e.history.Entries(), e.history.Cursor()
}

func (e *Engine) push(label string) {
	e.history.Push(Snapshot{
		ID:         uuid.New(),
		Label:      label,
		Time:       e.now(),
		Assignment: e.current,
	})
	e.hooks.OnHistory(context.Background(), label, e.history.Cursor(), e.history.Len())
}

// =============================================================================
// Queries
// =============================================================================

// Conflicts lists adjacent node pairs sharing a color in the current
// assignment.
func (e *Engine) Conflicts() []coloring.Conflict {
	if e.model == nil {
		return nil
	}
	return coloring.Conflicts(e.model, e.current)
}

// ChromaticNumber tries Backtracking with 1, 2, 3 and 4 colors and returns
// the first budget that yields a valid coloring, or 4 when none does. It
// assumes a planar input: graphs needing more than four colors are reported
// as 4. It returns 0 when no graph or an empty graph is loaded.
func (e *Engine) ChromaticNumber() int {
	if e.model == nil || e.model.Len() == 0 {
		return 0
	}
	if e.chromatic >= 0 {
		return e.chromatic
	}
	e.chromatic = coloring.DefaultMaxColors
	for k := 1; k <= coloring.DefaultMaxColors; k++ {
		a := coloring.Backtracking{}.Color(e.model, coloring.Options{
			MaxColors: k,
			MaxSteps:  e.defaults.MaxSteps,
			Timeout:   e.defaults.Timeout,
		})
		if a.Valid {
			e.chromatic = k
			break
		}
	}
	return e.chromatic
}

// Statistics summarizes the loaded graph.
type Statistics struct {
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	MinDegree int     `json:"min_degree"`
	MaxDegree int     `json:"max_degree"`
	AvgDegree float64 `json:"avg_degree"`
	Chromatic int     `json:"chromatic_number"`

	// MaybePlanar is the necessary condition edges <= 3n-6 (always true
	// below three nodes). It admits false positives.
	MaybePlanar bool `json:"maybe_planar"`
}

// Statistics derives counts and degree figures from the adjacency model and
// includes ChromaticNumber.
func (e *Engine) Statistics() (Statistics, error) {
	if e.model == nil {
		return Statistics{}, errors.NoGraph("statistics")
	}
	return Compute(e.model, e.ChromaticNumber()), nil
}

// Compute derives Statistics from m with a precomputed chromatic number.
func Compute(m *adjacency.Model, chromatic int) Statistics {
	n := m.Len()
	st := Statistics{
		Nodes:       n,
		Edges:       m.EdgeCount(),
		Chromatic:   chromatic,
		MaybePlanar: n < 3 || m.EdgeCount() <= 3*n-6,
	}
	if n == 0 {
		return st
	}
	degrees := m.Degrees()
	st.MinDegree, st.MaxDegree = degrees[0], degrees[0]
	total := 0
	for _, d := range degrees {
		st.MinDegree = min(st.MinDegree, d)
		st.MaxDegree = max(st.MaxDegree, d)
		total += d
	}
	st.AvgDegree = float64(total) / float64(n)
	return st
}
