package core

import "context"

type (
	// TextGenerator produces free text for a single, self-contained prompt.
	TextGenerator interface {
		Generate(ctx context.Context, prompt string) (string, error)
	}

	// Conversation sends a message to a generation service along with the prior turns of the conversation.
	Conversation interface {
		Send(ctx context.Context, message string) (string, error)
	}
)
