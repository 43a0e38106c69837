// Package slog provides log/slog decorators for uvdocs services. Wrap a
// service with one of these to trace its calls; the services themselves
// never log.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/uvdocs"
)

// Ensure LoggingFetcher implements uvdocs.Fetcher.
var _ uvdocs.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. Page fetches are labeled with
// the section they belong to; failures are logged at warn level with their
// error code.
type LoggingFetcher struct {
	next     uvdocs.Fetcher
	logger   *slog.Logger
	sections map[string]string
}

// NewLoggingFetcher creates a new LoggingFetcher. sections maps fetched URLs
// back to section names for the log.
func NewLoggingFetcher(next uvdocs.Fetcher, logger *slog.Logger, sections ...uvdocs.Section) *LoggingFetcher {
	byURL := make(map[string]string, len(sections))
	for _, s := range sections {
		byURL[s.URL] = s.Name
	}
	return &LoggingFetcher{next: next, logger: logger, sections: byURL}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if name, ok := f.sections[url]; ok {
			attrs = append(attrs, "section", name)
		}
		attrs = append(attrs, "bytes", len(html), "duration", time.Since(begin))
		if err != nil {
			attrs = append(attrs, "code", uvdocs.ErrorCode(err), "err", err)
			f.logger.WarnContext(ctx, "fetch", attrs...)
			return
		}
		f.logger.InfoContext(ctx, "fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("close fetcher", "err", err)
	}
	return err
}
