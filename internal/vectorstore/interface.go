package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks legalrag/internal/vectorstore Store

import "context"

// PassageMetadata is the normalized metadata shape for a retrieved passage.
// Backend-specific raw fields are mapped onto this schema at the adapter
// boundary; Article is 0 when the article number is unknown or not applicable.
type PassageMetadata struct {
	LawID      string `json:"law_id"`
	LawName    string `json:"law_name"`
	Category   string `json:"category"`
	Article    int    `json:"article"`
	Title      string `json:"title"`
	Filename   string `json:"filename,omitempty"`
	UpdateDate string `json:"update_date,omitempty"`
}

// Passage is a single retrieved passage with its similarity score.
// SimilarityScore is in roughly [0,1], higher meaning more similar; backends
// returning a distance convert via similarity = 1 - distance.
type Passage struct {
	Document        string          `json:"document"`
	SimilarityScore float64         `json:"similarity_score"`
	Metadata        PassageMetadata `json:"metadata"`
}

// Document is a provision to be indexed: its searchable text, embedding
// vector, and normalized metadata.
type Document struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata PassageMetadata
}

// IndexStats describes the state of the vector index for health and debug
// introspection.
type IndexStats struct {
	Backend       string `json:"backend"`
	IndexName     string `json:"index_name"`
	DocumentCount int    `json:"document_count"`
	Dimension     int    `json:"dimension"`
}

// Store is the normalized vector index contract. Two interchangeable
// implementations exist: a Qdrant-backed cloud index and a SQLite-backed
// local persistent index. Callers never branch on backend identity.
type Store interface {
	// Upsert inserts or updates documents in the index.
	Upsert(ctx context.Context, docs []Document) error

	// Search performs a nearest-neighbor search and returns at most topK
	// passages ordered by non-increasing similarity score. Matches whose
	// full text is missing are excluded, never surfaced as partial entries.
	Search(ctx context.Context, vector []float32, topK int) ([]Passage, error)

	// Stats returns index introspection data.
	Stats(ctx context.Context) (IndexStats, error)
}
