package llm

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds sampling parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens bounds the generated output. If 0, no bound is sent.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float32
}
