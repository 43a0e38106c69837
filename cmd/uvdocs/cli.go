package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/cache"
	"github.com/fwojciec/uvdocs/resolve"
	"github.com/fwojciec/uvdocs/sqlite"
)

// CacheManager initializes, validates, refreshes and clears the cache.
type CacheManager interface {
	Initialize(ctx context.Context) (*cache.Report, error)
	IsValid(ctx context.Context) bool
	Refresh(ctx context.Context, force bool) (*cache.Report, error)
	Clear(ctx context.Context) error
}

// SectionInfoLister summarizes cached sections.
type SectionInfoLister interface {
	SectionInfos(ctx context.Context) ([]*sqlite.SectionInfo, error)
}

// Server serves the cache to MCP clients.
type Server interface {
	Serve(ctx context.Context, in io.Reader, out io.Writer) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Cache    CacheManager
	Store    uvdocs.CacheStore
	Infos    SectionInfoLister
	Log      uvdocs.RefreshLog
	Notes    uvdocs.NoteService
	Resolver *resolve.Resolver
	Searcher uvdocs.Searcher
	Asker    uvdocs.Asker
	Server   Server

	// Exporter returns an exporter writing to dir.
	Exporter func(dir string) Exporter
}

// Exporter writes the cache to disk.
type Exporter interface {
	Export(ctx context.Context) (int, error)
}

// Globals are the flags shared by every command.
type Globals struct {
	DB          string        `name:"db" env:"UVDOCS_DB" default:"${db}" help:"Cache database path"`
	DocsURL     string        `name:"docs-url" env:"UVDOCS_DOCS_URL" default:"https://docs.astral.sh/uv" help:"Root of the uv documentation site"`
	PyPIURL     string        `name:"pypi-url" env:"UVDOCS_PYPI_URL" default:"https://pypi.org/pypi/uv/json" help:"PyPI JSON endpoint for uv"`
	FeedURL     string        `name:"feed-url" env:"UVDOCS_FEED_URL" default:"https://pypi.org/rss/project/uv/releases.xml" help:"PyPI release feed for uv"`
	Timeout     time.Duration `default:"10s" help:"Timeout for each page fetch and version lookup"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent section fetch limit"`
	Rate        float64       `default:"2" help:"Requests per second per host (0 disables limiting)"`
	Render      bool          `help:"Render pages in headless Chrome before extraction"`
	Atomic      bool          `help:"Write the version and all sections in one transaction"`
	Debug       bool          `help:"Log fetches, extractions and cache writes to stderr"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals `embed:""`

	Init    InitCmd    `cmd:"" help:"Populate the cache unless it is already initialized"`
	Refresh RefreshCmd `cmd:"" help:"Refresh the cache if the uv version changed"`
	Status  StatusCmd  `cmd:"" help:"Show the cached version and sections"`
	Clear   ClearCmd   `cmd:"" help:"Remove every cached section and the version record"`
	Show    ShowCmd    `cmd:"" help:"Show a section, element or subsection by address"`
	Search  SearchCmd  `cmd:"" help:"Find the elements best matching a query"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about the uv documentation"`
	Export  ExportCmd  `cmd:"" help:"Write the cached elements as markdown files"`
	Serve   ServeCmd   `cmd:"" help:"Serve the cache over MCP on stdin/stdout"`
}

// InitCmd is the "init" subcommand.
type InitCmd struct{}

// RefreshCmd is the "refresh" subcommand.
type RefreshCmd struct {
	Force bool `short:"f" help:"Refresh even if the uv version is unchanged"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Check bool `help:"Compare the cached version with the live uv version"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm clearing"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Address string `arg:"" help:"Address such as cli/uv-sync/options or uv-docs://settings"`
	JSON    bool   `name:"json" help:"Print the view as JSON"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" help:"Search keywords"`
	JSON  bool     `name:"json" help:"Print results as JSON"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question []string `arg:"" help:"Question to ask about the documentation"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" type:"path" help:"Output directory, replaced on success"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
