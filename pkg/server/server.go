// Package server exposes coloring sessions over a JSON HTTP API.
//
// Every session owns one [engine.Engine]. Requests against the same session
// are serialized; different sessions run in parallel. When a
// [session.Store] is configured, every mutation is persisted and sessions
// missing from memory are restored from the store on first use.
//
// # Routes
//
//	GET    /health
//	GET    /api/v1/algorithms
//	GET    /api/v1/samples/{name}
//	GET    /api/v1/sessions
//	POST   /api/v1/sessions
//	GET    /api/v1/sessions/{id}
//	DELETE /api/v1/sessions/{id}
//	PUT    /api/v1/sessions/{id}/graph
//	POST   /api/v1/sessions/{id}/coloring
//	GET    /api/v1/sessions/{id}/coloring
//	PUT    /api/v1/sessions/{id}/nodes/{nodeID}/color
//	POST   /api/v1/sessions/{id}/undo
//	POST   /api/v1/sessions/{id}/redo
//	POST   /api/v1/sessions/{id}/reset
//	GET    /api/v1/sessions/{id}/history
//	GET    /api/v1/sessions/{id}/stats
//	GET    /api/v1/sessions/{id}/conflicts
//	GET    /api/v1/sessions/{id}/render?format=svg
//
// Errors are returned as {"code": "...", "error": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/engine"
	"github.com/franzenjb/fourcolor/pkg/pipeline"
	"github.com/franzenjb/fourcolor/pkg/session"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 8 << 20

	shutdownTimeout = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	// Store persists sessions. Nil keeps sessions in memory only.
	Store session.Store

	// Runner computes cached statistics and renders. Nil uses a runner
	// without a cache.
	Runner *pipeline.Runner

	// Defaults are applied to every coloring request.
	Defaults coloring.Options

	HistorySize    int
	SessionTTL     time.Duration
	AllowedOrigins []string
	Logger         *log.Logger
}

// Server is the HTTP API.
type Server struct {
	router   chi.Router
	sessions *registry
	runner   *pipeline.Runner
	logger   *log.Logger
}

// New builds a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithDefaults(opts.Defaults),
	}
	if opts.HistorySize > 0 {
		engineOpts = append(engineOpts, engine.WithHistorySize(opts.HistorySize))
	}

	s := &Server{
		sessions: newRegistry(opts.Store, opts.SessionTTL, engineOpts),
		runner:   runner,
		logger:   logger,
	}
	s.router = s.routes(opts.AllowedOrigins)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes(origins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(httpHooks)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/algorithms", s.listAlgorithms)
		r.Get("/samples/{name}", s.getSample)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.listSessions)
			r.Post("/", s.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Delete("/", s.deleteSession)
				r.Put("/graph", s.loadGraph)
				r.Post("/coloring", s.computeColoring)
				r.Get("/coloring", s.getColoring)
				r.Put("/nodes/{nodeID}/color", s.assignColor)
				r.Post("/undo", s.undo)
				r.Post("/redo", s.redo)
				r.Post("/reset", s.reset)
				r.Get("/history", s.getHistory)
				r.Get("/stats", s.getStats)
				r.Get("/conflicts", s.getConflicts)
				r.Get("/render", s.render)
			})
		})
	})

	return r
}
