// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/decathlon/internal/adapters/repository"
	"github.com/okian/decathlon/internal/domain/types"
)

// defaultMaxLimit caps GET /results when no limit option is given.
const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	ByName(ctx context.Context, name string) ([]Entry, error)
}

// Entry mirrors the read shape returned by result queries.
type Entry = types.Entry

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLimit caps the limit accepted by GET /results.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// Server wires HTTP routes for the read API.
type Server struct {
	maxLimit int

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	resultsHandler *ResultsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.resultsHandler = NewResultsHandler(deps, s.maxLimit)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandleList, "results"))
	mux.HandleFunc("/results/", MetricsMiddleware(s.resultsHandler.HandleByName, "results_by_name"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
