package gemini

import (
	"context"

	"github.com/fwojciec/uvdocs"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ uvdocs.TokenCounter = (*TokenCounter)(nil)

// TokenCounter sizes ask prompts offline with the local Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer vocabulary for model. The vocabulary is
// downloaded on first use.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.EINVALID, "loading tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts text sent as one user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return tc.count(ctx, genai.Text(text), nil)
}

// CountPrompt counts the whole request Ask sends for entries and question,
// system instruction included.
func (tc *TokenCounter) CountPrompt(ctx context.Context, entries []Entry, question string) (int, error) {
	config := &genai.CountTokensConfig{SystemInstruction: BuildConfig().SystemInstruction}
	return tc.count(ctx, genai.Text(BuildUserPrompt(entries, question)), config)
}

func (tc *TokenCounter) count(ctx context.Context, contents []*genai.Content, config *genai.CountTokensConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	result, err := tc.tok.CountTokens(contents, config)
	if err != nil {
		return 0, uvdocs.Errorf(uvdocs.EINTERNAL, "counting tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
