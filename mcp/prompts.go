package mcp

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/uvdocs"
	"github.com/mark3labs/mcp-go/mcp"
)

// SummarizePrompt handles the summarize-docs prompt.
type SummarizePrompt struct {
	sections func(ctx context.Context) []string
}

// NewSummarizePrompt creates a SummarizePrompt.
func NewSummarizePrompt(sections func(ctx context.Context) []string) *SummarizePrompt {
	return &SummarizePrompt{sections: sections}
}

// Definition returns the MCP prompt definition for summarize-docs.
func (p *SummarizePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("summarize-docs",
		mcp.WithPromptDescription("Creates a summary of UV documentation sections"),
		mcp.WithArgument("section",
			mcp.ArgumentDescription("Documentation section to summarize (e.g., 'cli', 'settings', 'resolver')"),
		),
	)
}

// Handle asks for a summary of one section, or of all of them when the
// argument is absent or names no cached section.
func (p *SummarizePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sections := p.sections(ctx)
	if section := promptArg(req, "section"); slices.Contains(sections, section) {
		sections = []string{section}
	}

	text := fmt.Sprintf("Please summarize the following UV documentation sections: %s\n\nSections available:\n%s",
		strings.Join(sections, ", "), bulletList(sections))
	return userPrompt("Summarize UV documentation sections", text), nil
}

// BestSourcePrompt handles the best-doc-source prompt.
type BestSourcePrompt struct {
	sections func(ctx context.Context) []string
}

// NewBestSourcePrompt creates a BestSourcePrompt.
func NewBestSourcePrompt(sections func(ctx context.Context) []string) *BestSourcePrompt {
	return &BestSourcePrompt{sections: sections}
}

// Definition returns the MCP prompt definition for best-doc-source.
func (p *BestSourcePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("best-doc-source",
		mcp.WithPromptDescription("Helps determine the best documentation section to use"),
		mcp.WithArgument("query",
			mcp.ArgumentDescription("A short query describing the needed information"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle asks which section best answers the query.
func (p *BestSourcePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := promptArg(req, "query")
	if query == "" {
		return nil, uvdocs.Errorf(uvdocs.EINVALID, "query argument is required for best-doc-source prompt")
	}

	text := fmt.Sprintf("Based on the following query: '%s', please determine the best UV documentation section to refer to.\n\nAvailable sections:\n%s",
		query, bulletList(p.sections(ctx)))
	return userPrompt("Determine the best documentation source", text), nil
}

// ReformatPrompt handles the reformat-docs prompt.
type ReformatPrompt struct{}

// NewReformatPrompt creates a ReformatPrompt.
func NewReformatPrompt() *ReformatPrompt {
	return &ReformatPrompt{}
}

// Definition returns the MCP prompt definition for reformat-docs.
func (p *ReformatPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("reformat-docs",
		mcp.WithPromptDescription("Reformats documentation for clarity (e.g., step-by-step, bullet points)"),
		mcp.WithArgument("section",
			mcp.ArgumentDescription("Documentation section to format"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle asks for the section to be restructured.
func (p *ReformatPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	section := promptArg(req, "section")
	if section == "" {
		return nil, uvdocs.Errorf(uvdocs.EINVALID, "section argument is required for reformat-docs prompt")
	}

	text := fmt.Sprintf("Please reformat the documentation for '%s' to make it more structured and readable. "+
		"Convert long paragraphs into bullet points or step-by-step instructions if applicable.", section)
	return userPrompt("Reformat UV documentation for clarity", text), nil
}

func promptArg(req mcp.GetPromptRequest, name string) string {
	if req.Params.Arguments == nil {
		return ""
	}
	return strings.TrimSpace(req.Params.Arguments[name])
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}
}
