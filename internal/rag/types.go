package rag

import "legalrag/internal/vectorstore"

// Message roles recognized in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation. Order is chronological and
// semantically significant; the caller owns the history and passes it in
// full on every request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the input to the RAG pipeline.
type ChatRequest struct {
	// Messages is the full conversation history, oldest first.
	Messages []Message `json:"messages"`
	// MaxContextDocs bounds how many passages ground the answer.
	MaxContextDocs int `json:"max_context_docs"`
}

// Result is the structured outcome of one pipeline run. It is assembled once
// per request and never mutated; TotalContextDocs always equals
// len(ContextDocuments) and AIResponse is never empty.
type Result struct {
	UserQuery        string                `json:"user_query"`
	AIResponse       string                `json:"ai_response"`
	ContextDocuments []vectorstore.Passage `json:"context_documents"`
	TotalContextDocs int                   `json:"total_context_docs"`
}
