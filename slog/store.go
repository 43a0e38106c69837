package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/uvdocs"
)

// Ensure LoggingCacheStore implements uvdocs.CacheStore.
var _ uvdocs.CacheStore = (*LoggingCacheStore)(nil)

// LoggingCacheStore wraps a CacheStore with debug logging of writes and
// failed reads.
type LoggingCacheStore struct {
	next   uvdocs.CacheStore
	logger *slog.Logger
}

// NewLoggingCacheStore creates a new LoggingCacheStore.
func NewLoggingCacheStore(next uvdocs.CacheStore, logger *slog.Logger) *LoggingCacheStore {
	return &LoggingCacheStore{next: next, logger: logger}
}

// Document delegates to the wrapped store, logging only failures.
func (s *LoggingCacheStore) Document(ctx context.Context, section string) (*uvdocs.Document, error) {
	doc, err := s.next.Document(ctx, section)
	if err != nil {
		s.logger.Info("cache read", "section", section, "err", err)
	}
	return doc, err
}

// Version delegates to the wrapped store.
func (s *LoggingCacheStore) Version(ctx context.Context) (*uvdocs.VersionRecord, error) {
	return s.next.Version(ctx)
}

// SetVersion delegates to the wrapped store and logs the operation.
func (s *LoggingCacheStore) SetVersion(ctx context.Context, rec uvdocs.VersionRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache write version",
			"version", rec.Version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SetVersion(ctx, rec)
}

// PutDocument delegates to the wrapped store and logs the operation.
func (s *LoggingCacheStore) PutDocument(ctx context.Context, doc *uvdocs.Document) (res uvdocs.PutResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache write section",
			"section", doc.Section,
			"elements", len(doc.Elements),
			"hash", res.Hash,
			"changed", res.Changed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PutDocument(ctx, doc)
}

// Commit delegates to the wrapped store and logs the operation.
func (s *LoggingCacheStore) Commit(ctx context.Context, rec uvdocs.VersionRecord, docs []*uvdocs.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache commit",
			"version", rec.Version,
			"sections", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Commit(ctx, rec, docs)
}

// Sections delegates to the wrapped store.
func (s *LoggingCacheStore) Sections(ctx context.Context) ([]string, error) {
	return s.next.Sections(ctx)
}

// Clear delegates to the wrapped store and logs the operation.
func (s *LoggingCacheStore) Clear(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache clear",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Clear(ctx)
}
