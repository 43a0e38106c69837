package mock

import (
	"context"

	"github.com/fwojciec/uvdocs"
)

var _ uvdocs.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of uvdocs.DocumentReader.
type DocumentReader struct {
	DocumentFn func(ctx context.Context, section string) (*uvdocs.Document, error)
}

func (r *DocumentReader) Document(ctx context.Context, section string) (*uvdocs.Document, error) {
	return r.DocumentFn(ctx, section)
}

// NewDocumentReader returns a DocumentReader serving docs keyed by section
// name. Missing sections return ENOTFOUND.
func NewDocumentReader(docs ...*uvdocs.Document) *DocumentReader {
	bySection := make(map[string]*uvdocs.Document, len(docs))
	for _, doc := range docs {
		bySection[doc.Section] = doc
	}
	return &DocumentReader{
		DocumentFn: func(_ context.Context, section string) (*uvdocs.Document, error) {
			doc, ok := bySection[section]
			if !ok {
				return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no cached data for section %q", section)
			}
			return doc, nil
		},
	}
}

var _ uvdocs.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of uvdocs.CacheStore.
type CacheStore struct {
	DocumentFn    func(ctx context.Context, section string) (*uvdocs.Document, error)
	VersionFn     func(ctx context.Context) (*uvdocs.VersionRecord, error)
	SetVersionFn  func(ctx context.Context, rec uvdocs.VersionRecord) error
	PutDocumentFn func(ctx context.Context, doc *uvdocs.Document) (uvdocs.PutResult, error)
	CommitFn      func(ctx context.Context, rec uvdocs.VersionRecord, docs []*uvdocs.Document) error
	SectionsFn    func(ctx context.Context) ([]string, error)
	ClearFn       func(ctx context.Context) error
}

func (s *CacheStore) Document(ctx context.Context, section string) (*uvdocs.Document, error) {
	return s.DocumentFn(ctx, section)
}

func (s *CacheStore) Version(ctx context.Context) (*uvdocs.VersionRecord, error) {
	return s.VersionFn(ctx)
}

func (s *CacheStore) SetVersion(ctx context.Context, rec uvdocs.VersionRecord) error {
	return s.SetVersionFn(ctx, rec)
}

func (s *CacheStore) PutDocument(ctx context.Context, doc *uvdocs.Document) (uvdocs.PutResult, error) {
	return s.PutDocumentFn(ctx, doc)
}

func (s *CacheStore) Commit(ctx context.Context, rec uvdocs.VersionRecord, docs []*uvdocs.Document) error {
	return s.CommitFn(ctx, rec, docs)
}

func (s *CacheStore) Sections(ctx context.Context) ([]string, error) {
	return s.SectionsFn(ctx)
}

func (s *CacheStore) Clear(ctx context.Context) error {
	return s.ClearFn(ctx)
}

var _ uvdocs.RefreshLog = (*RefreshLog)(nil)

// RefreshLog is a mock implementation of uvdocs.RefreshLog.
type RefreshLog struct {
	RecordRefreshFn func(ctx context.Context, rec *uvdocs.RefreshRecord) error
	LastRefreshFn   func(ctx context.Context) (*uvdocs.RefreshRecord, error)
}

func (l *RefreshLog) RecordRefresh(ctx context.Context, rec *uvdocs.RefreshRecord) error {
	return l.RecordRefreshFn(ctx, rec)
}

func (l *RefreshLog) LastRefresh(ctx context.Context) (*uvdocs.RefreshRecord, error) {
	return l.LastRefreshFn(ctx)
}
