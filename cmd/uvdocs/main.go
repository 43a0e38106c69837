package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/cache"
	"github.com/fwojciec/uvdocs/fs"
	"github.com/fwojciec/uvdocs/gemini"
	"github.com/fwojciec/uvdocs/goquery"
	uvhttp "github.com/fwojciec/uvdocs/http"
	"github.com/fwojciec/uvdocs/mcp"
	"github.com/fwojciec/uvdocs/rank"
	"github.com/fwojciec/uvdocs/resolve"
	"github.com/fwojciec/uvdocs/rod"
	uvslog "github.com/fwojciec/uvdocs/slog"
	"github.com/fwojciec/uvdocs/sqlite"
	"github.com/fwojciec/uvdocs/version"
	"google.golang.org/genai"
)

// Version is the program version reported to MCP clients.
var Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher used for documentation pages. Closed by Close.
	Fetcher uvdocs.Fetcher
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		_ = m.Fetcher.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("uvdocs"),
		kong.Description("Local, version-gated cache of the uv reference documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"db": defaultDBPath()},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'uvdocs --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer m.Close()

	command := strings.Fields(kongCtx.Command())[0]
	if err := m.wire(ctx, command, cli.Globals, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire opens the database and builds the services the selected command
// needs.
func (m *Main) wire(ctx context.Context, command string, g Globals, deps *Dependencies) error {
	logger := slog.New(slog.DiscardHandler)
	if g.Debug {
		logger = slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if g.DB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(g.DB), 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(g.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set UVDOCS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", g.DB, err)
	}

	sqliteStore := sqlite.NewCacheStore(m.DB)
	var store uvdocs.CacheStore = sqliteStore
	if g.Debug {
		store = uvslog.NewLoggingCacheStore(store, logger)
	}

	sections := uvdocs.DefaultSections(g.DocsURL)

	deps.Store = store
	deps.Infos = sqliteStore
	deps.Log = sqlite.NewRefreshLog(m.DB)
	deps.Notes = sqlite.NewNoteService(m.DB)
	deps.Resolver = resolve.NewResolver(store)
	ranker := rank.NewRanker(store, uvdocs.SectionNames(sections))
	deps.Searcher = ranker

	fetcher, err := m.fetcher(g, fetches(command))
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed to use --render")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.Fetcher = fetcher

	var (
		pageFetcher uvdocs.Fetcher   = fetcher
		extractor   uvdocs.Extractor = goquery.NewExtractor()
	)
	if g.Debug {
		pageFetcher = uvslog.NewLoggingFetcher(pageFetcher, logger, sections...)
		extractor = uvslog.NewLoggingExtractor(extractor, logger)
	}

	sources := []uvdocs.VersionSource{
		uvhttp.NewPyPISource(nil, g.PyPIURL),
		uvhttp.NewReleaseFeedSource(nil, g.FeedURL),
		goquery.NewPageVersionSource(pageFetcher, sections[0].URL),
	}
	if g.Debug {
		for i, src := range sources {
			sources[i] = uvslog.NewLoggingVersionSource(src, logger)
		}
	}
	oracle := version.NewOracle(sources...)
	oracle.Timeout = g.Timeout

	manager := cache.NewManager(sections, pageFetcher, extractor, oracle, store)
	manager.Log = deps.Log
	manager.Concurrency = g.Concurrency
	manager.Atomic = g.Atomic
	manager.Progress = progressPrinter(deps.Stderr)
	deps.Cache = manager

	if command == "ask" {
		asker, err := m.asker(ctx, ranker, store, deps.Stderr)
		if err != nil {
			return err
		}
		deps.Asker = asker
	}

	deps.Exporter = func(dir string) Exporter {
		return fs.NewExporter(store, dir)
	}

	deps.Server = mcp.NewServer(mcp.Config{
		Version:  Version,
		Sections: sections,
		Cache:    manager,
		Lister:   store,
		Resolver: deps.Resolver,
		Searcher: ranker,
		Notes:    deps.Notes,
	})
	return nil
}

// fetches reports whether a command may download documentation pages.
func fetches(command string) bool {
	switch command {
	case "init", "refresh", "serve":
		return true
	}
	return false
}

// fetcher returns the headless browser fetcher when rendering is requested
// for a command that downloads pages, and the plain HTTP fetcher otherwise.
func (m *Main) fetcher(g Globals, download bool) (uvdocs.Fetcher, error) {
	if g.Render && download {
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(g.Timeout),
			rod.WithWaitSelector(goquery.DefaultContentSelector),
		)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return uvhttp.NewFetcher(
		uvhttp.WithTimeout(g.Timeout),
		uvhttp.WithRateLimit(g.Rate),
		uvhttp.WithRetryDelays(uvhttp.DefaultRetryDelays()),
	), nil
}

func (m *Main) asker(ctx context.Context, search uvdocs.Searcher, docs uvdocs.DocumentReader, stderr io.Writer) (uvdocs.Asker, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	asker := gemini.NewAsker(client, search, docs)
	if counter, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
		asker.Tokens = counter
	}
	return asker, nil
}

// tokenizerModel is the model whose vocabulary bounds the ask prompt.
const tokenizerModel = "gemini-2.5-flash"

// defaultDBPath returns <user cache dir>/uv-docs/uvdocs.db.
func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "uvdocs.db"
	}
	return filepath.Join(dir, "uv-docs", "uvdocs.db")
}

// progressPrinter reports refresh progress on w.
func progressPrinter(w io.Writer) cache.ProgressFunc {
	return func(e cache.ProgressEvent) {
		switch e.Type {
		case cache.ProgressCompleted:
			fmt.Fprintf(w, "[%d/%d] %s\n", e.Completed, e.Total, e.Section)
		case cache.ProgressFailed:
			fmt.Fprintf(w, "[%d/%d] %s: %s\n", e.Completed, e.Total, e.Section, uvdocs.ErrorMessage(e.Error))
		}
	}
}
