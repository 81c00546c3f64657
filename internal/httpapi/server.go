// Package httpapi exposes the analyze endpoint and the keyword admin surface.
// Handlers stay thin: parse, call the core, map errors to status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"brandmonitor/internal/aggregate"
	"brandmonitor/internal/domain"
	"brandmonitor/internal/ports"
	"brandmonitor/internal/vocab"
)

// Server routes the public API.
type Server struct {
	store      *vocab.Store
	aggregator *aggregate.Aggregator
	source     ports.ReviewSource
	logger     *slog.Logger
	mux        *http.ServeMux
}

// NewServer registers all routes.
func NewServer(store *vocab.Store, aggregator *aggregate.Aggregator, source ports.ReviewSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:      store,
		aggregator: aggregator,
		source:     source,
		logger:     logger,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)

	s.mux.HandleFunc("GET /api/keywords/all", s.handleKeywordsAll)
	s.mux.HandleFunc("GET /api/keywords/category/{category}", s.handleKeywordsCategory)
	s.mux.HandleFunc("GET /api/keywords/search", s.handleKeywordsSearch)
	s.mux.HandleFunc("POST /api/keywords/add", s.handleKeywordsAdd)
	s.mux.HandleFunc("POST /api/keywords/update", s.handleKeywordsUpdate)
	s.mux.HandleFunc("POST /api/keywords/delete", s.handleKeywordsDelete)
	s.mux.HandleFunc("POST /api/keywords/move", s.handleKeywordsMove)
	s.mux.HandleFunc("GET /api/keywords/stats", s.handleKeywordsStats)

	return s
}

// Handler exposes the routed mux.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Brand Reputation Monitor API",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError maps the domain taxonomy to status codes. Anything outside the
// taxonomy is a 500 with a generic body; the cause only goes to the log.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = err.Error()
	default:
		s.logger.Error("request failed", "error", err)
	}

	s.writeJSON(w, status, map[string]string{"error": message})
}
