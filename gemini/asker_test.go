package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/gemini"
	"github.com/fwojciec/uvdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() *mock.DocumentReader {
	return mock.NewDocumentReader(&uvdocs.Document{
		Type:    uvdocs.DocumentType,
		Section: "cli",
		Elements: []*uvdocs.Element{
			{
				Name:        "uv sync",
				Description: "Update the project's environment.",
				Documentation: []*uvdocs.Subsection{
					{Title: "Usage", Content: []string{"uv sync [OPTIONS]"}},
					{Title: "Options", Content: []string{"--frozen: Sync without updating the lockfile"}},
				},
			},
			{
				Name:        "uv lock",
				Description: "Update the project's lockfile.",
				Documentation: []*uvdocs.Subsection{
					{Title: "Usage", Content: []string{"uv lock [OPTIONS]"}},
				},
			},
		},
	})
}

func results(names ...string) []uvdocs.SearchResult {
	out := make([]uvdocs.SearchResult, 0, len(names))
	for _, n := range names {
		out = append(out, uvdocs.SearchResult{
			Section: "cli",
			Name:    n,
			Address: uvdocs.Address{"cli", n},
		})
	}
	return out
}

func TestAsker_Ask_ReturnsErrorWhenQuestionEmpty(t *testing.T) {
	t.Parallel()

	asker := gemini.NewAsker(nil, nil, nil)

	_, err := asker.Ask(context.Background(), "   ")

	require.Error(t, err)
	assert.Equal(t, uvdocs.EINVALID, uvdocs.ErrorCode(err))
	assert.Contains(t, uvdocs.ErrorMessage(err), "question required")
}

func TestAsker_Ask_ReturnsErrorWhenNothingMatches(t *testing.T) {
	t.Parallel()

	search := &mock.Searcher{
		SearchFn: func(context.Context, string) ([]uvdocs.SearchResult, error) {
			return nil, nil
		},
	}
	asker := gemini.NewAsker(nil, search, testDocs()) // nil client ok for this test

	_, err := asker.Ask(context.Background(), "how do I deploy to mars?")

	require.Error(t, err)
	assert.Equal(t, uvdocs.ENOTFOUND, uvdocs.ErrorCode(err))
	assert.Contains(t, uvdocs.ErrorMessage(err), "no documentation matches")
}

func TestAsker_Ask_PropagatesSearchError(t *testing.T) {
	t.Parallel()

	search := &mock.Searcher{
		SearchFn: func(context.Context, string) ([]uvdocs.SearchResult, error) {
			return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "database error")
		},
	}
	asker := gemini.NewAsker(nil, search, testDocs())

	_, err := asker.Ask(context.Background(), "sync")

	require.Error(t, err)
	assert.Equal(t, uvdocs.ECACHEIO, uvdocs.ErrorCode(err))
}

func TestAsker_Gather(t *testing.T) {
	t.Parallel()

	t.Run("loads ranked elements in order", func(t *testing.T) {
		t.Parallel()

		search := &mock.Searcher{
			SearchFn: func(context.Context, string) ([]uvdocs.SearchResult, error) {
				return results("uv lock", "uv sync"), nil
			},
		}
		asker := gemini.NewAsker(nil, search, testDocs())

		entries, err := asker.Gather(context.Background(), "lock")

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "uv lock", entries[0].Element.Name)
		assert.Equal(t, "uv sync", entries[1].Element.Name)
	})

	t.Run("skips results that no longer resolve", func(t *testing.T) {
		t.Parallel()

		search := &mock.Searcher{
			SearchFn: func(context.Context, string) ([]uvdocs.SearchResult, error) {
				return append(results("uv gone"), uvdocs.SearchResult{Section: "settings", Name: "x"}), nil
			},
		}
		asker := gemini.NewAsker(nil, search, testDocs())

		entries, err := asker.Gather(context.Background(), "gone")

		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("stops at the token budget", func(t *testing.T) {
		t.Parallel()

		search := &mock.Searcher{
			SearchFn: func(context.Context, string) ([]uvdocs.SearchResult, error) {
				return results("uv sync", "uv lock"), nil
			},
		}
		asker := gemini.NewAsker(nil, search, testDocs())
		asker.Tokens = &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) {
				if strings.HasPrefix(text, "<documentation>") {
					return 30, nil
				}
				return 40, nil
			},
		}
		asker.MaxTokens = 100

		entries, err := asker.Gather(context.Background(), "sync")

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "uv sync", entries[0].Element.Name)
	})

	t.Run("reserves room for the question and prompt wrapper", func(t *testing.T) {
		t.Parallel()

		search := &mock.Searcher{
			SearchFn: func(context.Context, string) ([]uvdocs.SearchResult, error) {
				return results("uv sync"), nil
			},
		}
		var counted []string
		asker := gemini.NewAsker(nil, search, testDocs())
		asker.Tokens = &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) {
				counted = append(counted, text)
				if strings.HasPrefix(text, "<documentation>") {
					return 90, nil
				}
				return 20, nil
			},
		}
		asker.MaxTokens = 100

		entries, err := asker.Gather(context.Background(), "how do I sync?")

		require.NoError(t, err)
		assert.Empty(t, entries)
		require.Len(t, counted, 2)
		assert.Equal(t, "<documentation>\n</documentation>\n\nQuestion: how do I sync?", counted[0])
		assert.True(t, strings.HasPrefix(counted[1], "<element>\n<address>"))
	})

	t.Run("propagates token counter error", func(t *testing.T) {
		t.Parallel()

		search := &mock.Searcher{
			SearchFn: func(context.Context, string) ([]uvdocs.SearchResult, error) {
				return results("uv sync"), nil
			},
		}
		asker := gemini.NewAsker(nil, search, testDocs())
		asker.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) {
				return 0, assert.AnError
			},
		}

		_, err := asker.Gather(context.Background(), "sync")

		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestBuildConfig_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "helpful assistant")
}

func TestBuildConfig_SetsTemperature(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, *config.Temperature, 0.001)
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	elem := &uvdocs.Element{
		Name:        "uv sync",
		Description: "Update the project's environment.",
		Documentation: []*uvdocs.Subsection{
			{Title: "Usage", Content: []string{"uv sync [OPTIONS]"}},
		},
	}
	entries := []gemini.Entry{{Address: uvdocs.Address{"cli", "uv sync"}, Element: elem}}

	prompt := gemini.BuildUserPrompt(entries, "How do I sync?")

	assert.Contains(t, prompt, "<documentation>")
	assert.Contains(t, prompt, "<name>uv sync</name>")
	assert.Contains(t, prompt, "<description>Update the project's environment.</description>")
	assert.Contains(t, prompt, `<subsection title="Usage">`)
	assert.Contains(t, prompt, "uv sync [OPTIONS]")
	assert.Contains(t, prompt, "</documentation>")
	assert.Contains(t, prompt, "Question: How do I sync?")
	assert.NotContains(t, prompt, "You are a helpful assistant")
}
