package uvdocs

import "context"

// TokenCounter counts LLM tokens in text.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
