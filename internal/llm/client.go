package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"legalrag/internal/apperr"
)

// Client is a client for an OpenAI-compatible chat completions API
// (OpenRouter in the default deployment).
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new chat completions client with a bounded per-call
// timeout. A missing API key is a configuration error.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, apperr.Configuration("chat API key is not set")
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ReasoningDetail is one entry of the reasoning_details list some models
// return. Summary entries carry the substantive text.
type ReasoningDetail struct {
	Type    string `json:"type"`
	Summary string `json:"summary,omitempty"`
	Text    string `json:"text,omitempty"`
}

// AssistantMessage is the message of a chat completion choice. Reasoning
// models sometimes leave Content empty and put the answer in Reasoning or
// ReasoningDetails instead, so all three fields are decoded.
type AssistantMessage struct {
	Role             string            `json:"role"`
	Content          string            `json:"content"`
	Reasoning        string            `json:"reasoning,omitempty"`
	ReasoningDetails []ReasoningDetail `json:"reasoning_details,omitempty"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int              `json:"index"`
	Message      AssistantMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

// Usage reports token accounting from the chat completions API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ChatWithMessages sends a chat completion request with the full message list
// and returns the raw assistant message of the first choice. Reconciling the
// possibly-fragmented message into a single answer string is the caller's
// concern. A non-2xx response is an upstream error; there is no retry.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (AssistantMessage, error) {
	url := fmt.Sprintf("%s/chat/completions", c.BaseURL)

	model := params.Model
	if model == "" {
		model = c.Model
	}

	payload := ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return AssistantMessage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return AssistantMessage{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "Legal AI RAG System")

	resp, err := c.client.Do(req)
	if err != nil {
		return AssistantMessage{}, apperr.Upstream(err, "failed to call chat completions API")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return AssistantMessage{}, apperr.Upstream(fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw)), "chat completions API")
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return AssistantMessage{}, apperr.Upstream(err, "failed to decode chat response")
	}

	if len(chatResp.Choices) == 0 {
		return AssistantMessage{}, apperr.Upstream(fmt.Errorf("no choices returned"), "chat completions API")
	}

	return chatResp.Choices[0].Message, nil
}
