// Package retrieval turns a natural-language query into ranked passages:
// embed the query, then run a nearest-neighbor search against the vector
// index. Nothing is cached between calls; every invocation recomputes from
// scratch.
package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retrieval.go -package=mocks legalrag/internal/retrieval Embedder

import (
	"context"
	"fmt"
	"log/slog"

	"legalrag/internal/apperr"
	"legalrag/internal/contextutil"
	"legalrag/internal/vectorstore"
)

// Embedder converts a query into an embedding vector. Defined here from the
// consumer's perspective; implemented by llm.EmbeddingsClient.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Retriever retrieves relevant passages for a query.
type Retriever struct {
	embedder Embedder
	store    vectorstore.Store
	logger   *slog.Logger
}

// New creates a new Retriever.
func New(embedder Embedder, store vectorstore.Store) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   slog.Default(),
	}
}

// SearchDocuments embeds the query and returns at most maxResults passages
// ordered by non-increasing similarity score. maxResults must be positive;
// failures from the embedding provider or the index propagate unchanged.
func (r *Retriever) SearchDocuments(ctx context.Context, query string, maxResults int) ([]vectorstore.Passage, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if maxResults <= 0 {
		return nil, &apperr.ValidationError{
			Field:   "max_results",
			Message: "must be a positive integer",
		}
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	passages, err := r.store.Search(ctx, vector, maxResults)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	logger.InfoContext(ctx, "retrieval completed", "query_length", len(query), "max_results", maxResults, "results", len(passages))
	return passages, nil
}
