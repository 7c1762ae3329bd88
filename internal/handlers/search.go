package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"docsite/internal/contextutil"
	"docsite/internal/storage"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchHandler answers queries against the exported search index.
type SearchHandler struct {
	documents storage.DocumentStore
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(documents storage.DocumentStore) *SearchHandler {
	return &SearchHandler{documents: documents}
}

// SearchResult is a single matching search document.
//
// swagger:model SearchResult
type SearchResult struct {
	Level     int    `json:"level"`
	PageTitle string `json:"page_title"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// SearchResponse represents the response to a search query.
//
// swagger:model SearchResponse
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// ServeHTTP handles search requests.
//
// swagger:route GET /api/search search
//
// # Search the site
//
// Returns search documents whose title or content contains q, in site order.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  schema:
//	    "$ref": "#/definitions/SearchResponse"
//	'400':
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	docs, err := h.documents.Search(ctx, query, limit)
	if err != nil {
		logger.ErrorContext(ctx, "search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	resp := SearchResponse{Query: query, Results: make([]SearchResult, len(docs))}
	for i, d := range docs {
		resp.Results[i] = SearchResult{Level: d.Level, PageTitle: d.PageTitle, Title: d.Title, Content: d.Content}
	}

	logger.DebugContext(ctx, "search served", "query", query, "results", len(docs))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode search response", "error", err)
	}
}
