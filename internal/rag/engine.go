package rag

import (
	"context"
	"fmt"
	"log/slog"

	"legalrag/internal/contextutil"
	"legalrag/internal/vectorstore"
)

// Retriever retrieves relevant passages for a query. Implemented by
// retrieval.Retriever.
type Retriever interface {
	SearchDocuments(ctx context.Context, query string, maxResults int) ([]vectorstore.Passage, error)
}

// AnswerGenerator produces a grounded answer from a conversation and its
// retrieved passages. Implemented by Generator.
type AnswerGenerator interface {
	Generate(ctx context.Context, history []Message, passages []vectorstore.Passage) (string, error)
}

// Engine runs the RAG pipeline: resolve the latest user query, retrieve
// passages, generate the answer, assemble the result.
type Engine interface {
	Chat(ctx context.Context, req ChatRequest) (Result, error)
}

// engine implements the Engine interface.
type engine struct {
	retriever Retriever
	generator AnswerGenerator
	logger    *slog.Logger
}

// NewEngine creates a new RAG engine. Components are constructed once at
// process start and reused across requests; the engine holds no per-request
// state.
func NewEngine(retriever Retriever, generator AnswerGenerator) Engine {
	return &engine{
		retriever: retriever,
		generator: generator,
		logger:    slog.Default(),
	}
}

// Chat runs one request through the pipeline. No step is retried; any
// failure aborts the request with the originating error.
func (e *engine) Chat(ctx context.Context, req ChatRequest) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query, err := LatestUserQuery(req.Messages)
	if err != nil {
		return Result{}, err
	}

	logger.InfoContext(ctx, "RAG pipeline started",
		"query_length", len(query),
		"history_turns", len(req.Messages),
		"max_context_docs", req.MaxContextDocs,
	)

	passages, err := e.retriever.SearchDocuments(ctx, query, req.MaxContextDocs)
	if err != nil {
		return Result{}, fmt.Errorf("retrieval failed: %w", err)
	}

	answer, err := e.generator.Generate(ctx, req.Messages, passages)
	if err != nil {
		return Result{}, fmt.Errorf("answer generation failed: %w", err)
	}

	logger.InfoContext(ctx, "RAG pipeline completed",
		"context_docs", len(passages),
		"answer_length", len(answer),
	)

	return Result{
		UserQuery:        query,
		AIResponse:       answer,
		ContextDocuments: passages,
		TotalContextDocs: len(passages),
	}, nil
}
