// Package mcp serves the documentation cache over the Model Context Protocol
// using mark3labs/mcp-go. Tools refresh, search and read the cache; resources
// expose sections, elements, subsections and notes by URI; prompts help a
// client pick and summarize sections.
package mcp

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/cache"
	"github.com/fwojciec/uvdocs/resolve"
	"github.com/mark3labs/mcp-go/server"
)

// Name is the server name reported to MCP clients.
const Name = "uv-docs"

// CacheManager initializes and refreshes the cache.
type CacheManager interface {
	Initialize(ctx context.Context) (*cache.Report, error)
	Refresh(ctx context.Context, force bool) (*cache.Report, error)
}

// SectionLister lists the sections currently cached.
type SectionLister interface {
	Sections(ctx context.Context) ([]string, error)
}

// Server wires the cache services into an MCP server.
type Server struct {
	MCP *server.MCPServer

	sections  []uvdocs.Section
	cache     CacheManager
	notes     uvdocs.NoteService
	resources *ResourceHandler
}

// Config holds the services a Server exposes.
type Config struct {
	Version  string
	Sections []uvdocs.Section
	Cache    CacheManager
	Lister   SectionLister
	Resolver *resolve.Resolver
	Searcher uvdocs.Searcher
	Notes    uvdocs.NoteService
}

// NewServer creates a Server and registers its tools, resources and prompts.
func NewServer(cfg Config) *Server {
	s := &Server{
		MCP: server.NewMCPServer(
			Name,
			cfg.Version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, true),
			server.WithPromptCapabilities(true),
			server.WithRecovery(),
		),
		sections:  cfg.Sections,
		cache:     cfg.Cache,
		notes:     cfg.Notes,
		resources: NewResourceHandler(cfg.Resolver, cfg.Notes),
	}

	updateTool := NewUpdateCacheTool(cfg.Cache)
	s.MCP.AddTool(updateTool.Definition(), updateTool.Handle)

	searchTool := NewSearchTool(cfg.Searcher)
	s.MCP.AddTool(searchTool.Definition(), searchTool.Handle)

	docTool := NewGetDocumentationTool(cfg.Resolver)
	s.MCP.AddTool(docTool.Definition(), docTool.Handle)

	noteTool := NewAddNoteTool(cfg.Notes)
	noteTool.OnSaved = s.addNoteResource
	s.MCP.AddTool(noteTool.Definition(), noteTool.Handle)

	for _, sec := range cfg.Sections {
		s.MCP.AddResource(SectionResource(sec), s.resources.HandleDocumentation)
	}
	s.MCP.AddResourceTemplate(ElementTemplate(), s.resources.HandleDocumentation)
	s.MCP.AddResourceTemplate(SubsectionTemplate(), s.resources.HandleDocumentation)
	s.MCP.AddResourceTemplate(NoteTemplate(), s.resources.HandleNote)

	lister := sectionNames(cfg.Lister, cfg.Sections)

	summarize := NewSummarizePrompt(lister)
	s.MCP.AddPrompt(summarize.Definition(), summarize.Handle)

	best := NewBestSourcePrompt(lister)
	s.MCP.AddPrompt(best.Definition(), best.Handle)

	reformat := NewReformatPrompt()
	s.MCP.AddPrompt(reformat.Definition(), reformat.Handle)

	return s
}

// Serve initializes the cache, registers the stored notes and then serves
// MCP over the given streams until ctx is done or the input closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	if _, err := s.cache.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}

	if s.notes != nil {
		notes, err := s.notes.FindNotes(ctx)
		if err != nil {
			return fmt.Errorf("listing notes: %w", err)
		}
		for _, n := range notes {
			s.addNoteResource(n.Name)
		}
	}

	return server.NewStdioServer(s.MCP).Listen(ctx, in, out)
}

// addNoteResource publishes a saved note in the resource list. Adding the
// same URI twice replaces the earlier entry.
func (s *Server) addNoteResource(name string) {
	s.MCP.AddResource(NoteResource(name), s.resources.HandleNote)
}

// sectionNames returns a function listing cached sections, falling back to
// the configured ones when the cache is empty or unreadable.
func sectionNames(lister SectionLister, configured []uvdocs.Section) func(ctx context.Context) []string {
	fallback := make([]string, 0, len(configured))
	for _, sec := range configured {
		fallback = append(fallback, sec.Name)
	}
	return func(ctx context.Context) []string {
		if lister == nil {
			return fallback
		}
		names, err := lister.Sections(ctx)
		if err != nil || len(names) == 0 {
			return fallback
		}
		return names
	}
}
