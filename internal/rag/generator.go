package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag.go -package=mocks legalrag/internal/rag ChatClient,Retriever,AnswerGenerator,Engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"legalrag/internal/contextutil"
	"legalrag/internal/llm"
	"legalrag/internal/vectorstore"
)

// ChatClient is the chat-completion boundary as the generator consumes it.
// Implemented by llm.Client.
type ChatClient interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (llm.AssistantMessage, error)
}

// Extractor pulls an answer string out of an assistant message. Extractors
// are applied in order until one yields a non-empty string; the list is
// replaceable because upstream response shapes keep evolving.
type Extractor func(llm.AssistantMessage) string

// noContextSentinel stands in for the context block when retrieval returned
// nothing. It is still sent to the model, never causing an early return.
const noContextSentinel = "No relevant legal provisions were found."

// fallbackAnswer substitutes for a reply the fallback chain could not parse,
// keeping the answer non-empty.
const fallbackAnswer = "I'm sorry, but I was unable to generate an answer. Please try asking again."

const systemPromptFormat = `You are an expert in law. Provide accurate and clear legal answers.

Refer to the following legal provisions when answering:
%s

Answering guidelines:
1. Cite the relevant provisions as the basis for your answer.
2. Explain legal terminology in plain language.
3. Include concrete, actionable advice.
4. Mention caveats and exceptions where necessary.`

// Generator builds a grounding prompt from retrieved passages plus the full
// conversation history, invokes the chat model, and reconciles its
// possibly-fragmented reply into a single answer string.
type Generator struct {
	chat        ChatClient
	temperature float32
	maxTokens   int
	extractors  []Extractor
	logger      *slog.Logger
}

// NewGenerator creates a Generator with fixed sampling parameters. When no
// extractors are given the default fallback chain is used: message content,
// then the reasoning field, then a reasoning-details summary entry.
func NewGenerator(chat ChatClient, temperature float32, maxTokens int, extractors ...Extractor) *Generator {
	if len(extractors) == 0 {
		extractors = defaultExtractors()
	}
	return &Generator{
		chat:        chat,
		temperature: temperature,
		maxTokens:   maxTokens,
		extractors:  extractors,
		logger:      slog.Default(),
	}
}

// Generate produces an answer grounded in the given passages. The formatted
// context and four answering directives go into one system instruction,
// followed by the conversation history verbatim. Model failures propagate;
// an unparseable reply degrades to a fixed apology string instead.
func (g *Generator) Generate(ctx context.Context, history []Message, passages []vectorstore.Passage) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	contextText := FormatContext(passages)

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{
		Role:    RoleSystem,
		Content: fmt.Sprintf(systemPromptFormat, contextText),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	logger.DebugContext(ctx, "sending chat completion request",
		"history_turns", len(history),
		"context_passages", len(passages),
		"context_length", len(contextText),
	)

	reply, err := g.chat.ChatWithMessages(ctx, messages, llm.ChatParams{
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		logger.ErrorContext(ctx, "chat completion failed", "error", err)
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	for _, extract := range g.extractors {
		if answer := extract(reply); answer != "" {
			return answer, nil
		}
	}

	logger.WarnContext(ctx, "model reply yielded no content, substituting fallback answer")
	return fallbackAnswer, nil
}

// FormatContext renders passages as numbered reference blocks. Pure function
// of its input: the same passage list always yields the same text.
func FormatContext(passages []vectorstore.Passage) string {
	if len(passages) == 0 {
		return noContextSentinel
	}

	parts := make([]string, 0, len(passages))
	for i, passage := range passages {
		// Indexed text is "<law> <article> <title>: <content>"; strip the
		// heading prefix so the block does not repeat it.
		body := passage.Document
		if split := strings.SplitN(body, ": ", 2); len(split) == 2 {
			body = split[1]
		}

		parts = append(parts, fmt.Sprintf("[Reference %d]\n%s %s\n%s\n",
			i+1,
			passage.Metadata.LawName,
			articleLabel(passage.Metadata),
			body,
		))
	}

	return strings.Join(parts, "\n")
}

// articleLabel renders "Article N" when the article number is known,
// otherwise falls back to the article title string.
func articleLabel(meta vectorstore.PassageMetadata) string {
	if meta.Article != 0 {
		return fmt.Sprintf("Article %d", meta.Article)
	}
	return meta.Title
}

func defaultExtractors() []Extractor {
	return []Extractor{
		extractContent,
		extractReasoning,
		extractReasoningSummary,
	}
}

func extractContent(m llm.AssistantMessage) string {
	return m.Content
}

func extractReasoning(m llm.AssistantMessage) string {
	return m.Reasoning
}

// extractReasoningSummary scans reasoning_details for the first summary-type
// entry with text.
func extractReasoningSummary(m llm.AssistantMessage) string {
	for _, detail := range m.ReasoningDetails {
		if detail.Type == "reasoning.summary" && detail.Summary != "" {
			return detail.Summary
		}
	}
	return ""
}
