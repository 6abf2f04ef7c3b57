package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"legalrag/internal/config"
	"legalrag/internal/http"
	"legalrag/internal/llm"
	"legalrag/internal/rag"
	"legalrag/internal/retrieval"
	"legalrag/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx := context.Background()

	// Initialize the vector index backend
	var store vectorstore.Store
	switch cfg.VectorBackend {
	case "qdrant":
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantStore.EnsureCollection(ctx, cfg.EmbeddingDimension); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		store = qdrantStore
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "dimension", cfg.EmbeddingDimension)
	case "sqlite":
		sqliteStore, err := vectorstore.NewSQLiteStore(cfg.SQLitePath, cfg.EmbeddingDimension)
		if err != nil {
			log.Fatalf("Failed to open SQLite index: %v", err)
		}
		defer func() {
			_ = sqliteStore.Close()
		}()
		store = sqliteStore
		slog.Info("SQLite index ready", "path", cfg.SQLitePath, "dimension", cfg.EmbeddingDimension)
	default:
		log.Fatalf("Unknown vector backend: %s", cfg.VectorBackend)
	}

	// External service clients; missing credentials fail here, at startup
	embedder, err := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	if err != nil {
		log.Fatalf("Failed to create embeddings client: %v", err)
	}

	chatClient, err := llm.NewClient(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel, cfg.ChatTimeout)
	if err != nil {
		log.Fatalf("Failed to create chat client: %v", err)
	}

	// Assemble the pipeline: construct once, reuse across requests
	retriever := retrieval.New(embedder, store)
	generator := rag.NewGenerator(chatClient, cfg.ChatTemperature, cfg.ChatMaxTokens)
	engine := rag.NewEngine(retriever, generator)
	slog.Info("RAG engine initialized", "chat_model", cfg.ChatModel, "embedding_model", cfg.EmbeddingModel)

	router := http.NewRouter(&http.Deps{
		Engine:    engine,
		Retriever: retriever,
		Store:     store,
		Config:    cfg,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr, "backend", cfg.VectorBackend)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
