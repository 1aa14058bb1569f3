package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/franzenjb/fourcolor/pkg/buildinfo"
	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/pipeline"
	"github.com/franzenjb/fourcolor/pkg/render"
	"github.com/franzenjb/fourcolor/pkg/session"
)

// =============================================================================
// Request and Response Types
// =============================================================================

type createSessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Loaded        bool      `json:"loaded"`
	Nodes         int       `json:"nodes"`
	Edges         int       `json:"edges"`
	HistoryLength int       `json:"history_length"`
	Cursor        int       `json:"cursor"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type colorRequest struct {
	Algorithm   string                `json:"algorithm"`
	MaxColors   int                   `json:"max_colors"`
	Constraints []coloring.Constraint `json:"constraints"`
	Randomize   bool                  `json:"randomize"`
	Seed        uint64                `json:"seed"`
	MaxSteps    int                   `json:"max_steps"`
	TimeoutMS   int                   `json:"timeout_ms"`
}

type assignRequest struct {
	Color *int `json:"color"`
}

type coloringResponse struct {
	graph.Coloring
	Conflicts []coloring.Conflict `json:"conflicts"`
	CanUndo   bool                `json:"can_undo"`
	CanRedo   bool                `json:"can_redo"`
}

type historyMoveResponse struct {
	Changed bool `json:"changed"`
	coloringResponse
}

type historyEntry struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Time      time.Time `json:"time"`
	Chromatic int       `json:"chromatic"`
	Valid     bool      `json:"valid"`
}

type historyResponse struct {
	Entries []historyEntry `json:"entries"`
	Cursor  int            `json:"cursor"`
}

// =============================================================================
// Session Plumbing
// =============================================================================

// withEntry runs fn with the session's engine locked and responds with its
// result. When mutate is set the session is persisted before responding.
func (s *Server) withEntry(w http.ResponseWriter, r *http.Request, mutate bool, fn func(*entry) (any, error)) {
	ent, err := s.sessions.get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	v, err := fn(ent)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if mutate {
		if err := s.sessions.persist(r.Context(), ent); err != nil {
			s.respondError(w, r, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, v)
}

func summarize(ent *entry) sessionResponse {
	entries, cursor := ent.eng.History()
	resp := sessionResponse{
		ID:            ent.sess.ID,
		Name:          ent.sess.Name,
		Loaded:        ent.eng.Loaded(),
		HistoryLength: len(entries),
		Cursor:        cursor,
		CreatedAt:     ent.sess.CreatedAt,
		ExpiresAt:     ent.sess.ExpiresAt,
	}
	if m := ent.eng.Model(); m != nil {
		resp.Nodes = m.Len()
		resp.Edges = m.EdgeCount()
	}
	return resp
}

func coloringState(ent *entry) coloringResponse {
	conflicts := ent.eng.Conflicts()
	if conflicts == nil {
		conflicts = []coloring.Conflict{}
	}
	return coloringResponse{
		Coloring:  graph.NewColoring(ent.eng.Current()),
		Conflicts: conflicts,
		CanUndo:   ent.eng.CanUndo(),
		CanRedo:   ent.eng.CanRedo(),
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *Server) listAlgorithms(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"algorithms": coloring.Names(),
		"default":    pipeline.DefaultAlgorithm,
	})
}

func (s *Server) getSample(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, ok := graph.Sample(name)
	if !ok {
		s.respondError(w, r, errors.New(errors.ErrCodeNotFound, "no sample named %q", name))
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	ent, err := s.sessions.create(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, summarize(ent))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	infos, err := s.sessions.list(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if infos == nil {
		infos = []session.Info{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": infos})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, false, func(ent *entry) (any, error) {
		return summarize(ent), nil
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	g, err := graph.ReadGraph(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.withEntry(w, r, true, func(ent *entry) (any, error) {
		ent.eng.LoadGraph(g.Adjacency())
		return s.runner.Stats(r.Context(), g)
	})
}

func (s *Server) computeColoring(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Algorithm != "" {
		if err := pipeline.ValidateAlgorithm(req.Algorithm); err != nil {
			s.respondError(w, r, err)
			return
		}
	}
	if err := errors.ValidateMaxColors(req.MaxColors); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.MaxSteps < 0 || req.TimeoutMS < 0 {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "max_steps and timeout_ms must not be negative"))
		return
	}

	opts := coloring.Options{
		Algorithm:   req.Algorithm,
		MaxColors:   req.MaxColors,
		Constraints: req.Constraints,
		Randomize:   req.Randomize,
		Seed:        req.Seed,
		MaxSteps:    req.MaxSteps,
		Timeout:     time.Duration(req.TimeoutMS) * time.Millisecond,
	}
	s.withEntry(w, r, true, func(ent *entry) (any, error) {
		if _, err := ent.eng.ComputeColoring(opts); err != nil {
			return nil, err
		}
		return coloringState(ent), nil
	})
}

func (s *Server) getColoring(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, false, func(ent *entry) (any, error) {
		if !ent.eng.Loaded() {
			return nil, errors.NoGraph("get coloring")
		}
		return coloringState(ent), nil
	})
}

func (s *Server) assignColor(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Color == nil {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "color is required"))
		return
	}
	if err := errors.ValidateColorIndex(*req.Color); err != nil {
		s.respondError(w, r, err)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	s.withEntry(w, r, true, func(ent *entry) (any, error) {
		if m := ent.eng.Model(); m != nil && !m.Has(nodeID) {
			return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
		}
		if _, err := ent.eng.AssignColor(nodeID, *req.Color); err != nil {
			return nil, err
		}
		return coloringState(ent), nil
	})
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, true, func(ent *entry) (any, error) {
		if !ent.eng.Loaded() {
			return nil, errors.NoGraph("undo")
		}
		_, changed := ent.eng.Undo()
		return historyMoveResponse{Changed: changed, coloringResponse: coloringState(ent)}, nil
	})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, true, func(ent *entry) (any, error) {
		if !ent.eng.Loaded() {
			return nil, errors.NoGraph("redo")
		}
		_, changed := ent.eng.Redo()
		return historyMoveResponse{Changed: changed, coloringResponse: coloringState(ent)}, nil
	})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, true, func(ent *entry) (any, error) {
		if !ent.eng.Loaded() {
			return nil, errors.NoGraph("reset")
		}
		ent.eng.Reset()
		return coloringState(ent), nil
	})
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, false, func(ent *entry) (any, error) {
		snaps, cursor := ent.eng.History()
		resp := historyResponse{Entries: make([]historyEntry, len(snaps)), Cursor: cursor}
		for i, snap := range snaps {
			resp.Entries[i] = historyEntry{
				ID:        snap.ID.String(),
				Label:     snap.Label,
				Time:      snap.Time,
				Chromatic: snap.Assignment.Chromatic,
				Valid:     snap.Assignment.Valid,
			}
		}
		return resp, nil
	})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, false, func(ent *entry) (any, error) {
		if !ent.eng.Loaded() {
			return nil, errors.NoGraph("statistics")
		}
		return s.runner.Stats(r.Context(), graph.FromAdjacency(ent.eng.Graph()))
	})
}

func (s *Server) getConflicts(w http.ResponseWriter, r *http.Request) {
	s.withEntry(w, r, false, func(ent *entry) (any, error) {
		if !ent.eng.Loaded() {
			return nil, errors.NoGraph("conflicts")
		}
		conflicts := ent.eng.Conflicts()
		if conflicts == nil {
			conflicts = []coloring.Conflict{}
		}
		return map[string]any{"conflicts": conflicts, "valid": len(conflicts) == 0}, nil
	})
}

var contentTypes = map[string]string{
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	format, err := render.ParseFormat(format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	labels, _ := strconv.ParseBool(q.Get("labels"))

	ent, err := s.sessions.get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ent.mu.Lock()
	loaded := ent.eng.Loaded()
	g := graph.FromAdjacency(ent.eng.Graph())
	a := ent.eng.Current()
	ent.mu.Unlock()

	if !loaded {
		s.respondError(w, r, errors.NoGraph("render"))
		return
	}
	artifacts, err := s.runner.Render(r.Context(), g, a, pipeline.Options{Formats: []string{format}, Labels: labels})
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}
