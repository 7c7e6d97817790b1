// Package server exposes the studio over a JSON HTTP API for the browser
// front-end.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"product_draft_studio/logger"
	"product_draft_studio/studio"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc     *studio.Service
	router  *chi.Mux
	logger  *slog.Logger
	origins []string
	now     func() time.Time
}

// Option configures New.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCORSOrigins sets the allowed browser origins; default "*".
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithClock overrides time.Now for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates the server with all routes configured.
func New(svc *studio.Service, opts ...Option) (*Server, error) {
	if svc == nil {
		return nil, errors.New("studio service required")
	}
	s := &Server{
		svc:     svc,
		router:  chi.NewRouter(),
		logger:  logger.Discard(),
		origins: []string{"*"},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", s.handleGenerate)
			r.Post("/sample", s.handleSample)
			r.Get("/{id}", s.handleGetDraft)
			r.Post("/{id}/favorite", s.handleFavorite)
			r.Post("/{id}/rewrite", s.handleRewrite)
			r.Get("/{id}/export", s.handleExportDraft)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Get("/export", s.handleExportTemplates)
			r.Post("/import", s.handleImportTemplates)
			r.Delete("/{id}", s.handleDeleteTemplate)
		})

		r.Get("/library", s.handleListLibrary)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Patch("/{id}", s.handleEditTask)
			r.Delete("/{id}", s.handleDeleteTask)
			r.Post("/{id}/start", s.handleTaskTransition(transitionStart))
			r.Post("/{id}/pause", s.handleTaskTransition(transitionPause))
			r.Post("/{id}/complete", s.handleTaskTransition(transitionComplete))
			r.Post("/{id}/fail", s.handleTaskTransition(transitionFail))
		})

		r.Get("/stats", s.handleStats)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Put("/", s.handlePutSettings)
			r.Post("/reset", s.handleResetSettings)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	success(w, map[string]any{"status": "healthy", "rewrite": s.svc.CanRewrite()}, s.logger)
}
