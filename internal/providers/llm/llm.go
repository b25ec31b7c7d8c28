package llm

import "context"

type Provider interface {
	// GenerateContent returns the model's full text response for a prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}
