package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/uvdocs"
)

// Ensure LoggingExtractor implements uvdocs.Extractor.
var _ uvdocs.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   uvdocs.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next uvdocs.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(section uvdocs.Section, html string) (doc *uvdocs.Document, err error) {
	defer func(begin time.Time) {
		var elements int
		if doc != nil {
			elements = len(doc.Elements)
		}
		e.logger.Info("extract",
			"section", section.Name,
			"bytes", len(html),
			"elements", elements,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(section, html)
}
