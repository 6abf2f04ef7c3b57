package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"legalrag/internal/contextutil"
	"legalrag/internal/vectorstore"
)

// defaultMaxResults is applied when the request omits max_results.
const defaultMaxResults = 5

// DocumentSearcher retrieves passages for a query. Defined from the
// handler's perspective; implemented by retrieval.Retriever.
type DocumentSearcher interface {
	SearchDocuments(ctx context.Context, query string, maxResults int) ([]vectorstore.Passage, error)
}

// SearchHandler handles HTTP requests for retrieval-only document search.
type SearchHandler struct {
	retriever DocumentSearcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(retriever DocumentSearcher) *SearchHandler {
	return &SearchHandler{retriever: retriever}
}

// SearchRequest represents the HTTP request payload for document search.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// SearchResponse represents the HTTP response payload for document search.
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// ServeHTTP handles POST /api/v1/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in search request")
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}

	passages, err := h.retriever.SearchDocuments(ctx, req.Query, maxResults)
	if err != nil {
		handlePipelineError(w, ctx, err, "Failed to search documents")
		return
	}

	results := toSearchResults(passages)
	writeJSON(ctx, w, SearchResponse{
		Query:        req.Query,
		Results:      results,
		TotalResults: len(results),
	})
}
