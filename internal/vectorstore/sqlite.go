package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"legalrag/internal/apperr"
	"legalrag/internal/contextutil"
)

// SQLiteStore implements Store with a local persistent SQLite index.
// Search is brute force: every stored embedding is scored with cosine
// distance and converted to similarity via similarity = 1 - distance.
// Suitable for small corpora and offline deployments without a Qdrant server.
type SQLiteStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	path      string
	dimension int
}

// NewSQLiteStore opens (or creates) the local index at the given path.
func NewSQLiteStore(path string, dimension int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{
		db:        db,
		path:      path,
		dimension: dimension,
	}

	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate creates the documents table. Idempotent.
func (s *SQLiteStore) migrate() error {
	schema := `CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		law_id TEXT NOT NULL DEFAULT '',
		law_name TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		article INTEGER NOT NULL DEFAULT 0,
		title TEXT NOT NULL DEFAULT '',
		filename TEXT NOT NULL DEFAULT '',
		update_date TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces documents in the index.
func (s *SQLiteStore) Upsert(ctx context.Context, docs []Document) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(docs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Upstream(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO documents
		(id, law_id, law_name, category, article, title, filename, update_date, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return apperr.Upstream(err, "failed to prepare statement")
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, doc := range docs {
		embedding, err := json.Marshal(doc.Vector)
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			doc.ID,
			doc.Metadata.LawID,
			doc.Metadata.LawName,
			doc.Metadata.Category,
			doc.Metadata.Article,
			doc.Metadata.Title,
			doc.Metadata.Filename,
			doc.Metadata.UpdateDate,
			doc.Text,
			embedding,
		)
		if err != nil {
			return apperr.Upstream(err, "failed to insert document")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Upstream(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "upserted documents", "path", s.path, "count", len(docs))
	return nil
}

// Search scores every stored document against the query vector and returns
// the topK passages ordered by non-increasing similarity. Rows with empty
// text or a corrupted embedding are skipped.
func (s *SQLiteStore) Search(ctx context.Context, vector []float32, topK int) ([]Passage, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT law_id, law_name, category, article,
		title, filename, update_date, text, embedding FROM documents`)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to query documents")
	}
	defer func() {
		_ = rows.Close()
	}()

	var passages []Passage
	for rows.Next() {
		var meta PassageMetadata
		var text string
		var embeddingJSON []byte

		err := rows.Scan(&meta.LawID, &meta.LawName, &meta.Category, &meta.Article,
			&meta.Title, &meta.Filename, &meta.UpdateDate, &text, &embeddingJSON)
		if err != nil {
			return nil, apperr.Upstream(err, "failed to scan document row")
		}

		if text == "" {
			continue
		}

		var embedding []float32
		if err := json.Unmarshal(embeddingJSON, &embedding); err != nil {
			continue // Skip corrupted embeddings
		}

		passages = append(passages, Passage{
			Document:        text,
			SimilarityScore: 1 - cosineDistance(vector, embedding),
			Metadata:        meta,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream(err, "row iteration error")
	}

	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].SimilarityScore > passages[j].SimilarityScore
	})

	if len(passages) > topK {
		passages = passages[:topK]
	}

	logger.InfoContext(ctx, "search completed", "path", s.path, "top_k", topK, "results", len(passages))
	return passages, nil
}

// Stats returns index introspection data.
func (s *SQLiteStore) Stats(ctx context.Context) (IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return IndexStats{}, apperr.Upstream(err, "failed to count documents")
	}

	return IndexStats{
		Backend:       "sqlite",
		IndexName:     s.path,
		DocumentCount: count,
		Dimension:     s.dimension,
	}, nil
}

// cosineDistance returns 1 - cosine similarity, in [0,2]. Mismatched lengths
// and zero vectors score as maximally distant within [0,1].
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
