package ai

import (
	"context"
	"errors"
)

// AI is the external model. It knows nothing about PGN, HTTP or the database.
type AI interface {
	GetReply(
		ctx context.Context,
		systemPrompt string,
		userText string,
	) (string, error)
}

// Message is one turn handed to the model.
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}

var ErrEmptyReply = errors.New("ai: empty reply")
