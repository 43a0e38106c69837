package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/uvdocs"
)

// Ensure LoggingVersionSource implements uvdocs.VersionSource.
var _ uvdocs.VersionSource = (*LoggingVersionSource)(nil)

// LoggingVersionSource wraps a VersionSource with debug logging.
type LoggingVersionSource struct {
	next   uvdocs.VersionSource
	logger *slog.Logger
}

// NewLoggingVersionSource creates a new LoggingVersionSource.
func NewLoggingVersionSource(next uvdocs.VersionSource, logger *slog.Logger) *LoggingVersionSource {
	return &LoggingVersionSource{next: next, logger: logger}
}

// Name delegates to the wrapped source.
func (s *LoggingVersionSource) Name() string {
	return s.next.Name()
}

// LatestVersion delegates to the wrapped source and logs the operation.
func (s *LoggingVersionSource) LatestVersion(ctx context.Context) (version string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("version lookup",
			"source", s.next.Name(),
			"version", version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LatestVersion(ctx)
}
