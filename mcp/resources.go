package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/resolve"
	"github.com/mark3labs/mcp-go/mcp"
)

// NoteScheme prefixes note resource URIs.
const NoteScheme = "note://internal/"

// ResourceHandler reads documentation and note resources.
type ResourceHandler struct {
	resolver *resolve.Resolver
	notes    uvdocs.NoteService
}

// NewResourceHandler creates a ResourceHandler.
func NewResourceHandler(resolver *resolve.Resolver, notes uvdocs.NoteService) *ResourceHandler {
	return &ResourceHandler{resolver: resolver, notes: notes}
}

// SectionResource returns the resource listing one section's elements.
func SectionResource(sec uvdocs.Section) mcp.Resource {
	return mcp.NewResource(
		uvdocs.Address{sec.Name}.String(),
		fmt.Sprintf("UV %s documentation", uvdocs.Title(sec.Name)),
		mcp.WithResourceDescription(fmt.Sprintf("Elements of the uv %s reference", sec.Name)),
		mcp.WithMIMEType("text/plain"),
	)
}

// ElementTemplate returns the template addressing one element.
func ElementTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		uvdocs.Scheme+"://{section}/{element}",
		"UV documentation element",
		mcp.WithTemplateDescription("A command or setting with its description and subsections"),
		mcp.WithTemplateMIMEType("text/plain"),
	)
}

// SubsectionTemplate returns the template addressing one subsection.
func SubsectionTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		uvdocs.Scheme+"://{section}/{element}/{subsection}",
		"UV documentation subsection",
		mcp.WithTemplateDescription("The content of one subsection of an element"),
		mcp.WithTemplateMIMEType("text/plain"),
	)
}

// NoteTemplate returns the template addressing any note.
func NoteTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		NoteScheme+"{name}",
		"Note",
		mcp.WithTemplateDescription("A note saved with add-note"),
		mcp.WithTemplateMIMEType("text/plain"),
	)
}

// NoteResource returns the resource for one saved note.
func NoteResource(name string) mcp.Resource {
	return mcp.NewResource(
		NoteScheme+name,
		"Note: "+name,
		mcp.WithResourceDescription("A simple note named "+name),
		mcp.WithMIMEType("text/plain"),
	)
}

// HandleDocumentation resolves a uv-docs:// URI.
func (h *ResourceHandler) HandleDocumentation(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	addr, err := uvdocs.ParseAddress(req.Params.URI)
	if err != nil {
		return nil, err
	}
	res, err := h.resolver.Resolve(ctx, addr)
	if err != nil {
		return nil, err
	}
	return textContents(req.Params.URI, res.Text()), nil
}

// HandleNote reads a note:// URI.
func (h *ResourceHandler) HandleNote(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name, ok := strings.CutPrefix(req.Params.URI, NoteScheme)
	if !ok {
		return nil, uvdocs.Errorf(uvdocs.EINVALID, "unsupported note URI %q", req.Params.URI)
	}
	note, err := h.notes.FindNote(ctx, strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, err
	}
	return textContents(req.Params.URI, note.Content), nil
}

func textContents(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}
}
