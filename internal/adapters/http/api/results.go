package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ResultsDependencies defines the read operations behind /results.
type ResultsDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	ByName(ctx context.Context, name string) ([]Entry, error)
}

// ResultsHandler serves the ranked result set.
type ResultsHandler struct {
	deps     ResultsDependencies
	maxLimit int
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies, maxLimit int) *ResultsHandler {
	return &ResultsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleList handles GET /results?limit=N. Without a limit it returns up to
// maxLimit entries.
func (h *ResultsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit exceeds %d", ErrBadRequest, h.maxLimit))
			return
		}
		n = v
	}

	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleByName handles GET /results/{name} requests.
func (h *ResultsHandler) HandleByName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// The name is one escaped path segment; "%2F" carries a literal slash.
	segment := strings.TrimPrefix(r.URL.EscapedPath(), "/results/")
	name, err := url.PathUnescape(segment)
	if err != nil || strings.TrimSpace(name) == "" || strings.Contains(segment, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entries, err := h.deps.ByName(r.Context(), name)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
