// Package ingest loads legal provisions from corpus files and prepares them
// for indexing. Two input formats are supported: a JSON corpus of provision
// records and markdown statute files split per article.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"legalrag/internal/vectorstore"
)

// Provision is one legal provision from the corpus.
type Provision struct {
	ID         string `json:"id"`
	LawID      string `json:"law_id"`
	LawName    string `json:"law_name"`
	Article    int    `json:"article"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Content    string `json:"content"`
	Filename   string `json:"filename,omitempty"`
	UpdateDate string `json:"update_date,omitempty"`
}

// LoadCorpus reads a JSON array of provisions from path. Entries without
// content are skipped: they can never surface as search results.
func LoadCorpus(path string) ([]Provision, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var all []Provision
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	provisions := make([]Provision, 0, len(all))
	for _, p := range all {
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		provisions = append(provisions, p)
	}

	return provisions, nil
}

// FullText builds the searchable text for a provision:
// "<law> <article label> <title>: <content>". The heading prefix before
// ": " is what the context formatter strips back out when grounding answers.
func (p Provision) FullText() string {
	parts := []string{p.LawName}
	if p.Article != 0 {
		parts = append(parts, fmt.Sprintf("Article %d", p.Article))
	}
	if p.Title != "" {
		parts = append(parts, p.Title)
	}

	return fmt.Sprintf("%s: %s", strings.Join(parts, " "), p.Content)
}

// Document converts a provision and its embedding into an index document.
// A UUID is assigned when the corpus record carries no ID (Qdrant requires
// UUID or integer point IDs).
func (p Provision) Document(vector []float32) vectorstore.Document {
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}

	return vectorstore.Document{
		ID:     id,
		Text:   p.FullText(),
		Vector: vector,
		Metadata: vectorstore.PassageMetadata{
			LawID:      p.LawID,
			LawName:    p.LawName,
			Category:   p.Category,
			Article:    p.Article,
			Title:      p.Title,
			Filename:   p.Filename,
			UpdateDate: p.UpdateDate,
		},
	}
}
