package mcp

import (
	"context"
	"fmt"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/rank"
	"github.com/fwojciec/uvdocs/resolve"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateCacheTool handles the update-cache tool.
type UpdateCacheTool struct {
	cache CacheManager
}

// NewUpdateCacheTool creates an UpdateCacheTool.
func NewUpdateCacheTool(cache CacheManager) *UpdateCacheTool {
	return &UpdateCacheTool{cache: cache}
}

// Definition returns the MCP tool definition for update-cache.
func (t *UpdateCacheTool) Definition() mcp.Tool {
	return mcp.NewTool("update-cache",
		mcp.WithDescription("Update documentation cache if version has changed"),
		mcp.WithBoolean("force",
			mcp.Description("Force cache update regardless of version"),
			mcp.DefaultBool(false),
		),
	)
}

// Handle refreshes the cache and reports per-section outcomes.
func (t *UpdateCacheTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.cache.Refresh(ctx, req.GetBool("force", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update cache: %s", uvdocs.ErrorMessage(err))), nil
	}
	return mcp.NewToolResultText(report.String()), nil
}

// SearchTool handles the search-documentation tool.
type SearchTool struct {
	search uvdocs.Searcher
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(search uvdocs.Searcher) *SearchTool {
	return &SearchTool{search: search}
}

// Definition returns the MCP tool definition for search-documentation.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search-documentation",
		mcp.WithDescription("Search UV documentation using fuzzy matching to find the 3 best matching resources"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
	)
}

// Handle ranks cached elements against the query.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	results, err := t.search.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %s", uvdocs.ErrorMessage(err))), nil
	}
	return mcp.NewToolResultText(rank.FormatResults(results)), nil
}

// GetDocumentationTool handles the get-documentation tool.
type GetDocumentationTool struct {
	resolver *resolve.Resolver
}

// NewGetDocumentationTool creates a GetDocumentationTool.
func NewGetDocumentationTool(resolver *resolve.Resolver) *GetDocumentationTool {
	return &GetDocumentationTool{resolver: resolver}
}

// Definition returns the MCP tool definition for get-documentation.
func (t *GetDocumentationTool) Definition() mcp.Tool {
	return mcp.NewTool("get-documentation",
		mcp.WithDescription("Read one element of the UV documentation, or one of its subsections"),
		mcp.WithString("section",
			mcp.Required(),
			mcp.Description("Documentation section, e.g. cli, settings or resolver"),
		),
		mcp.WithString("element",
			mcp.Required(),
			mcp.Description("Command or setting name, e.g. uv sync"),
		),
		mcp.WithString("subsection",
			mcp.Description("Subsection title, e.g. Options. Omit to list the subsections"),
		),
	)
}

// Handle resolves the requested address.
func (t *GetDocumentationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section := req.GetString("section", "")
	element := req.GetString("element", "")
	if section == "" || element == "" {
		return mcp.NewToolResultError("'section' and 'element' are required"), nil
	}

	addr := uvdocs.Address{section, element}
	if sub := req.GetString("subsection", ""); sub != "" {
		addr = addr.Child(sub)
	}

	res, err := t.resolver.Resolve(ctx, addr)
	if err != nil {
		return mcp.NewToolResultError(uvdocs.ErrorMessage(err)), nil
	}
	return mcp.NewToolResultText(res.Text()), nil
}

// AddNoteTool handles the add-note tool.
type AddNoteTool struct {
	notes uvdocs.NoteService

	// OnSaved, if set, is called with the name of each saved note.
	OnSaved func(name string)
}

// NewAddNoteTool creates an AddNoteTool.
func NewAddNoteTool(notes uvdocs.NoteService) *AddNoteTool {
	return &AddNoteTool{notes: notes}
}

// Definition returns the MCP tool definition for add-note.
func (t *AddNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("add-note",
		mcp.WithDescription("Save a named note, readable afterwards as note://internal/<name>"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Note name"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Note content"),
		),
	)
}

// Handle creates or replaces the note.
func (t *AddNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	content := req.GetString("content", "")
	if name == "" || content == "" {
		return mcp.NewToolResultError("'name' and 'content' are required"), nil
	}

	if err := t.notes.SetNote(ctx, &uvdocs.Note{Name: name, Content: content}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saving note: %s", uvdocs.ErrorMessage(err))), nil
	}
	if t.OnSaved != nil {
		t.OnSaved(name)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added note '%s' with content: %s", name, content)), nil
}
