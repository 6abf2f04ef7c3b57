// Command ingest is a one-shot batch loader: it reads a legal corpus file
// (JSON provisions or a markdown statute), embeds every provision, and
// upserts the documents into the configured vector index.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"legalrag/internal/config"
	"legalrag/internal/ingest"
	"legalrag/internal/llm"
	"legalrag/internal/vectorstore"
)

func main() {
	filePath := flag.String("file", "", "corpus file to ingest (.json or .md)")
	batchSize := flag.Int("batch", 64, "embedding batch size")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("Usage: ingest -file <corpus.json|statute.md> [-batch N]")
	}
	if *batchSize <= 0 {
		log.Fatal("Batch size must be greater than 0")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	provisions, err := loadProvisions(*filePath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	if len(provisions) == 0 {
		log.Fatalf("No provisions found in %s", *filePath)
	}
	slog.Info("Corpus loaded", "file", *filePath, "provisions", len(provisions))

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open vector store: %v", err)
	}
	defer cleanup()

	embedder, err := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	if err != nil {
		log.Fatalf("Failed to create embeddings client: %v", err)
	}

	total := 0
	for start := 0; start < len(provisions); start += *batchSize {
		end := min(start+*batchSize, len(provisions))
		batch := provisions[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.FullText()
		}

		vectors, err := embedder.EmbedTexts(ctx, texts)
		if err != nil {
			log.Fatalf("Failed to embed batch starting at %d: %v", start, err)
		}

		docs := make([]vectorstore.Document, len(batch))
		for i, p := range batch {
			docs[i] = p.Document(vectors[i])
		}

		if err := store.Upsert(ctx, docs); err != nil {
			log.Fatalf("Failed to upsert batch starting at %d: %v", start, err)
		}

		total += len(docs)
		slog.Info("Batch ingested", "from", start, "to", end, "total", total)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		slog.Warn("Ingestion finished but index stats unavailable", "error", err)
		return
	}
	slog.Info("Ingestion completed",
		"backend", stats.Backend,
		"index", stats.IndexName,
		"document_count", stats.DocumentCount,
		"dimension", stats.Dimension,
	)
}

// loadProvisions dispatches on file extension: JSON corpus records or a
// markdown statute split per article.
func loadProvisions(path string) ([]ingest.Provision, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ingest.NewArticleSplitter().Split(content, path)
	default:
		return ingest.LoadCorpus(path)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, func(), error) {
	switch cfg.VectorBackend {
	case "sqlite":
		store, err := vectorstore.NewSQLiteStore(cfg.SQLitePath, cfg.EmbeddingDimension)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureCollection(ctx, cfg.EmbeddingDimension); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
