// Package gemini answers questions about cached uv documentation with
// Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/uvdocs"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// DefaultMaxTokens caps the documentation placed in one prompt.
const DefaultMaxTokens = 200_000

// Ensure Asker implements uvdocs.Asker at compile time.
var _ uvdocs.Asker = (*Asker)(nil)

// Asker implements uvdocs.Asker using Google Gemini. The documentation sent
// with each question is the full text of the best ranked elements.
type Asker struct {
	client *genai.Client
	search uvdocs.Searcher
	docs   uvdocs.DocumentReader

	// Tokens, if set, bounds the documentation by MaxTokens.
	Tokens    uvdocs.TokenCounter
	MaxTokens int
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, search uvdocs.Searcher, docs uvdocs.DocumentReader) *Asker {
	return &Asker{client: client, search: search, docs: docs, MaxTokens: DefaultMaxTokens}
}

// Ask answers a natural language question about the cached documentation.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", uvdocs.Errorf(uvdocs.EINVALID, "question required")
	}

	entries, err := a.Gather(ctx, question)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", uvdocs.Errorf(uvdocs.ENOTFOUND, "no documentation matches %q", question)
	}

	prompt := BuildUserPrompt(entries, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", uvdocs.Errorf(uvdocs.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// Entry is one element's documentation as placed in a prompt.
type Entry struct {
	Address uvdocs.Address
	Element *uvdocs.Element
}

// Gather loads the ranked elements in full, stopping before the token
// budget is exceeded.
func (a *Asker) Gather(ctx context.Context, question string) ([]Entry, error) {
	results, err := a.search.Search(ctx, question)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var used int
	if a.budgeted() {
		if used, err = a.promptOverhead(ctx, question); err != nil {
			return nil, err
		}
	}
	for _, r := range results {
		doc, err := a.docs.Document(ctx, r.Section)
		if err != nil {
			continue
		}
		elem := doc.FindElement(r.Name)
		if elem == nil {
			continue
		}
		entry := Entry{Address: r.Address, Element: elem}

		if a.budgeted() {
			n, err := a.Tokens.CountTokens(ctx, FormatEntry(entry))
			if err != nil {
				return nil, err
			}
			if used+n > a.MaxTokens {
				break
			}
			used += n
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (a *Asker) budgeted() bool {
	return a.Tokens != nil && a.MaxTokens > 0
}

// promptCounter is implemented by counters that can size a whole request.
type promptCounter interface {
	CountPrompt(ctx context.Context, entries []Entry, question string) (int, error)
}

// promptOverhead counts the prompt without documentation, so the budget
// covers the question and the wrapper as well.
func (a *Asker) promptOverhead(ctx context.Context, question string) (int, error) {
	if pc, ok := a.Tokens.(promptCounter); ok {
		return pc.CountPrompt(ctx, nil, question)
	}
	return a.Tokens.CountTokens(ctx, BuildUserPrompt(nil, question))
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about the uv Python package manager. Answer based only on the documentation provided and cite the uv-docs:// address you relied on. If the answer is not in the documentation, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing documentation and question.
func BuildUserPrompt(entries []Entry, question string) string {
	var sb strings.Builder
	sb.WriteString("<documentation>\n")
	for _, e := range entries {
		sb.WriteString(FormatEntry(e))
	}
	sb.WriteString("</documentation>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// FormatEntry renders one element for a prompt.
func FormatEntry(e Entry) string {
	var sb strings.Builder
	sb.WriteString("<element>\n")
	fmt.Fprintf(&sb, "<address>%s</address>\n", e.Address)
	fmt.Fprintf(&sb, "<name>%s</name>\n", e.Element.Name)
	if e.Element.Description != "" {
		fmt.Fprintf(&sb, "<description>%s</description>\n", e.Element.Description)
	}
	for _, s := range e.Element.Documentation {
		fmt.Fprintf(&sb, "<subsection title=%q>\n%s\n</subsection>\n", s.Title, strings.Join(s.Content, "\n"))
	}
	sb.WriteString("</element>\n")
	return sb.String()
}
