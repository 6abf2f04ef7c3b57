package rag

import "legalrag/internal/apperr"

// LatestUserQuery scans the conversation from most recent to oldest and
// returns the content of the first user turn it finds. An empty history or
// one without any user turn is a validation error; that condition is
// terminal, surfaced to the request boundary without retry.
func LatestUserQuery(messages []Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, nil
		}
	}
	return "", &apperr.ValidationError{
		Field:   "messages",
		Message: "no user message found",
	}
}
