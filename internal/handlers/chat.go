package handlers

import (
	"encoding/json"
	"net/http"

	"legalrag/internal/contextutil"
	"legalrag/internal/rag"
)

// defaultMaxContextDocs is applied when the request omits max_context_docs.
const defaultMaxContextDocs = 3

// ChatHandler handles HTTP requests for RAG chat.
type ChatHandler struct {
	engine rag.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine rag.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatMessage represents a single conversation turn in the HTTP payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the HTTP request payload for RAG chat.
// This mirrors rag.ChatRequest but is defined here for HTTP layer separation.
type ChatRequest struct {
	Messages       []ChatMessage `json:"messages"`
	MaxContextDocs int           `json:"max_context_docs,omitempty"`
}

// ChatResponse represents the HTTP response payload for RAG chat.
type ChatResponse struct {
	UserQuery        string         `json:"user_query"`
	AIResponse       string         `json:"ai_response"`
	ContextDocuments []SearchResult `json:"context_documents"`
	TotalContextDocs int            `json:"total_context_docs"`
}

// ServeHTTP handles POST /api/v1/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Messages) == 0 {
		logger.WarnContext(ctx, "empty messages array in chat request")
		writeError(w, http.StatusBadRequest, "Messages array cannot be empty")
		return
	}

	// Zero means "not provided"; negative values fall through to the
	// pipeline's own validation.
	maxContextDocs := req.MaxContextDocs
	if maxContextDocs == 0 {
		maxContextDocs = defaultMaxContextDocs
	}

	messages := make([]rag.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = rag.Message{Role: m.Role, Content: m.Content}
	}

	result, err := h.engine.Chat(ctx, rag.ChatRequest{
		Messages:       messages,
		MaxContextDocs: maxContextDocs,
	})
	if err != nil {
		handlePipelineError(w, ctx, err, "Failed to process chat request")
		return
	}

	writeJSON(ctx, w, ChatResponse{
		UserQuery:        result.UserQuery,
		AIResponse:       result.AIResponse,
		ContextDocuments: toSearchResults(result.ContextDocuments),
		TotalContextDocs: result.TotalContextDocs,
	})
}
