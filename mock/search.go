package mock

import (
	"context"

	"github.com/fwojciec/uvdocs"
)

var _ uvdocs.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of uvdocs.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) ([]uvdocs.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]uvdocs.SearchResult, error) {
	return s.SearchFn(ctx, query)
}

var _ uvdocs.Asker = (*Asker)(nil)

// Asker is a mock implementation of uvdocs.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	return a.AskFn(ctx, question)
}

var _ uvdocs.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of uvdocs.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
