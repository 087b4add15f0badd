package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tmuir/minute/internal/engine"
	"github.com/tmuir/minute/internal/forward"
)

// Server is the minute HTTP API server.
type Server struct {
	engine    *engine.Engine
	forwarder *forward.Forwarder
	router    chi.Router
	version   string
	started   time.Time
}

// New creates a new Server. The forwarder may be nil; the forward route
// then reports that forwarding is not configured.
func New(eng *engine.Engine, fwd *forward.Forwarder, version string) *Server {
	s := &Server{
		engine:    eng,
		forwarder: fwd,
		version:   version,
		started:   time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/projects", s.handleProjects)
		r.Get("/graph", s.handleGraph)

		r.Post("/notes", s.handleCreateNote)
		r.Route("/notes/{project}/{noteID}", func(r chi.Router) {
			r.Get("/", s.handleGetNote)
			r.Patch("/", s.handleUpdateNote)
			r.Delete("/", s.handleDeleteNote)
			r.Get("/related", s.handleRelated)
			r.Get("/links", s.handleGetLinks)
			r.Post("/links", s.handleLink)
			r.Delete("/links", s.handleUnlink)
			r.Post("/autolink", s.handleAutoLink)
			r.Get("/backlinks", s.handleBacklinks)
			r.Post("/forward", s.handleForward)
		})
		r.Get("/notes", s.handleListNotes)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := s.engine.Store.Projects()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"store":   err == nil,
		"base":    s.engine.Store.Base,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
