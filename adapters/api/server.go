// Package api exposes a compiled module's random streams over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gostreams/app"
	"gostreams/internal"
	"gostreams/internal/compile"
	"gostreams/internal/errors"
)

// Server routes HTTP requests to one compiled module
type Server struct {
	router      *chi.Mux
	made        *compile.Made
	checkpoints *app.CheckpointService
	logger      *internal.Logger
}

// NewServer creates the router; checkpoints may be nil to disable those routes
func NewServer(made *compile.Made, checkpoints *app.CheckpointService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:      chi.NewRouter(),
		made:        made,
		checkpoints: checkpoints,
		logger:      logger.With("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	if s.logger.GetLevel() >= internal.LogLevelDebug {
		s.router.Use(middleware.Logger)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/streams", func(r chi.Router) {
		r.Get("/", s.handleListStreams)
		r.Post("/initialize", s.handleInitialize)
		r.Post("/seed", s.handleSeed)
		r.Get("/{key}/state", s.handleGetState)
		r.Put("/{key}/state", s.handleSetState)
	})

	s.router.Get("/methods", s.handleListMethods)
	s.router.Post("/methods/{name}/call", s.handleCall)

	if s.checkpoints != nil {
		s.router.Get("/checkpoints", s.handleListCheckpoints)
		s.router.Post("/checkpoints", s.handleSaveCheckpoint)
		s.router.Post("/checkpoints/{id}/restore", s.handleRestoreCheckpoint)
		s.router.Delete("/checkpoints/{id}", s.handleDeleteCheckpoint)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error code onto an HTTP status
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeUninitialized:
		status = http.StatusConflict
	default:
		s.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
