package handlers

import "legalrag/internal/vectorstore"

// DocumentMetadata mirrors vectorstore.PassageMetadata for the HTTP layer.
type DocumentMetadata struct {
	LawID      string `json:"law_id"`
	LawName    string `json:"law_name"`
	Category   string `json:"category"`
	Article    int    `json:"article"`
	Title      string `json:"title"`
	Filename   string `json:"filename,omitempty"`
	UpdateDate string `json:"update_date,omitempty"`
}

// SearchResult is one retrieved passage in an HTTP response.
type SearchResult struct {
	Document        string           `json:"document"`
	SimilarityScore float64          `json:"similarity_score"`
	Metadata        DocumentMetadata `json:"metadata"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// toSearchResults converts normalized passages to their HTTP representation.
func toSearchResults(passages []vectorstore.Passage) []SearchResult {
	results := make([]SearchResult, len(passages))
	for i, p := range passages {
		results[i] = SearchResult{
			Document:        p.Document,
			SimilarityScore: p.SimilarityScore,
			Metadata: DocumentMetadata{
				LawID:      p.Metadata.LawID,
				LawName:    p.Metadata.LawName,
				Category:   p.Metadata.Category,
				Article:    p.Metadata.Article,
				Title:      p.Metadata.Title,
				Filename:   p.Metadata.Filename,
				UpdateDate: p.Metadata.UpdateDate,
			},
		}
	}
	return results
}
