package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legalrag/internal/apperr"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(baseURL, "test-key", "deepseek/deepseek-chat", 30*time.Second)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient("https://openrouter.ai/api/v1", "", "deepseek/deepseek-chat", 30*time.Second)
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("NewClient() error = %v, want ErrConfiguration", err)
	}
}

func TestChatWithMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "Legal AI RAG System" {
			t.Errorf("X-Title = %q", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "deepseek/deepseek-chat" {
			t.Errorf("model = %q, want client default", req.Model)
		}
		if req.Temperature != 0.3 {
			t.Errorf("temperature = %v, want 0.3", req.Temperature)
		}
		if req.MaxTokens != 1500 {
			t.Errorf("max_tokens = %d, want 1500", req.MaxTokens)
		}
		if len(req.Messages) != 2 {
			t.Errorf("messages count = %d, want 2", len(req.Messages))
		}

		resp := ChatResponse{
			ID: "gen-1",
			Choices: []ChatChoice{{
				Message:      AssistantMessage{Role: "assistant", Content: "the answer"},
				FinishReason: "stop",
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	messages := []Message{
		{Role: "system", Content: "you are a legal expert"},
		{Role: "user", Content: "question"},
	}

	reply, err := client.ChatWithMessages(context.Background(), messages, ChatParams{Temperature: 0.3, MaxTokens: 1500})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
	if reply.Content != "the answer" {
		t.Errorf("Content = %q, want %q", reply.Content, "the answer")
	}
}

func TestChatWithMessages_ModelOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "other/model" {
			t.Errorf("model = %q, want request override", req.Model)
		}
		resp := ChatResponse{Choices: []ChatChoice{{Message: AssistantMessage{Content: "ok"}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{Model: "other/model"})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
}

func TestChatWithMessages_ReasoningFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reasoning models can leave content empty and answer elsewhere.
		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "",
					"reasoning": "reasoned text",
					"reasoning_details": [
						{"type": "reasoning.summary", "summary": "the summary"}
					]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	reply, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
	if reply.Content != "" {
		t.Errorf("Content = %q, want empty", reply.Content)
	}
	if reply.Reasoning != "reasoned text" {
		t.Errorf("Reasoning = %q", reply.Reasoning)
	}
	if len(reply.ReasoningDetails) != 1 || reply.ReasoningDetails[0].Summary != "the summary" {
		t.Errorf("ReasoningDetails = %+v", reply.ReasoningDetails)
	}
}

func TestChatWithMessages_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{})
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("ChatWithMessages() error = %v, want ErrUpstream", err)
	}
}

func TestChatWithMessages_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{Choices: []ChatChoice{}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{})
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("ChatWithMessages() error = %v, want ErrUpstream on empty choices", err)
	}
}

func TestChatWithMessages_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{})
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("ChatWithMessages() error = %v, want ErrUpstream on decode failure", err)
	}
}
