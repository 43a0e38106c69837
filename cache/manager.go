// Package cache coordinates the version oracle, the extractor and the cache
// store to keep cached documentation in step with the upstream uv release.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/uvdocs"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency is the number of sections fetched at once.
const DefaultConcurrency = 3

// Manager implements initialize, validate, refresh and clear over one
// section set.
type Manager struct {
	Sections  []uvdocs.Section
	Fetcher   uvdocs.Fetcher
	Extractor uvdocs.Extractor
	Oracle    uvdocs.VersionOracle
	Store     uvdocs.CacheStore

	// Log records each refresh cycle. Optional.
	Log uvdocs.RefreshLog

	// Progress receives events as sections complete. Optional.
	Progress ProgressFunc

	// Concurrency bounds concurrent section fetches. Zero means
	// DefaultConcurrency.
	Concurrency int

	// Atomic writes the version record and every extracted section in one
	// store transaction after all sections are processed, and writes nothing
	// when any section failed. Otherwise the version record is written first
	// and sections follow one by one.
	Atomic bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	group singleflight.Group
	locks keyedMutex
}

// ProgressEvent reports progress during a refresh.
type ProgressEvent struct {
	Type      ProgressType
	Section   string
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting refresh progress.
type ProgressFunc func(event ProgressEvent)

// NewManager creates a Manager with default settings.
func NewManager(sections []uvdocs.Section, fetcher uvdocs.Fetcher, extractor uvdocs.Extractor, oracle uvdocs.VersionOracle, store uvdocs.CacheStore) *Manager {
	return &Manager{
		Sections:    sections,
		Fetcher:     fetcher,
		Extractor:   extractor,
		Oracle:      oracle,
		Store:       store,
		Concurrency: DefaultConcurrency,
	}
}

// Initialize populates an uninitialized cache. When a version record already
// exists it does nothing and returns a report with Skipped set. A failing
// version lookup still leaves a record holding uvdocs.Unknown behind.
func (m *Manager) Initialize(ctx context.Context) (*Report, error) {
	if rec, err := m.Store.Version(ctx); err == nil {
		return &Report{Version: rec.Version, Skipped: true}, nil
	}
	return m.collapse(ctx, false)
}

// IsValid reports whether the stored version equals the live upstream
// version. Any failure reading the stored record counts as invalid.
//
// Known limitation: when both the stored and the live version are
// uvdocs.Unknown they compare equal, which can hide a real upstream change.
func (m *Manager) IsValid(ctx context.Context) bool {
	stored, err := m.Store.Version(ctx)
	if err != nil {
		return false
	}
	return m.Oracle.CurrentVersion(ctx).Version == stored.Version
}

// Refresh re-fetches every section unless force is false and the cache is
// valid, in which case the report has UpToDate set. Per-section failures are
// reported in the outcome list and never abort the refresh. An error is
// returned only when the version record cannot be written.
func (m *Manager) Refresh(ctx context.Context, force bool) (*Report, error) {
	if !force && m.IsValid(ctx) {
		rec, err := m.Store.Version(ctx)
		if err != nil {
			return nil, err
		}
		return &Report{Version: rec.Version, UpToDate: true}, nil
	}
	return m.collapse(ctx, force)
}

// Clear removes every cached document and the version record, so the next
// Initialize starts from scratch.
func (m *Manager) Clear(ctx context.Context) error {
	return m.Store.Clear(ctx)
}

// collapse runs at most one refresh per force flag at a time. Concurrent
// callers share the in-flight result.
func (m *Manager) collapse(ctx context.Context, force bool) (*Report, error) {
	v, err, _ := m.group.Do(fmt.Sprintf("refresh:%t", force), func() (any, error) {
		return m.refresh(ctx, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Report), nil
}

func (m *Manager) refresh(ctx context.Context, force bool) (*Report, error) {
	started := m.now()
	report := &Report{ID: uuid.New().String(), Forced: force}

	rec := m.Oracle.CurrentVersion(ctx)
	report.Version = rec.Version

	if !m.Atomic {
		if err := m.Store.SetVersion(ctx, rec); err != nil {
			return nil, err
		}
	}

	results := m.processSections(ctx)

	for _, r := range results {
		report.Sections = append(report.Sections, r.outcome)
	}

	if m.Atomic {
		if report.Failed() > 0 {
			// The stored version keeps describing the stored documents, so
			// the next non-forced refresh retries.
			report.RolledBack = true
		} else {
			docs := make([]*uvdocs.Document, 0, len(results))
			for _, r := range results {
				docs = append(docs, r.doc)
			}
			if err := m.Store.Commit(ctx, rec, docs); err != nil {
				return nil, err
			}
		}
	}

	if m.Log != nil {
		// History is informational; a failed write must not fail a refresh
		// whose documents are already stored.
		_ = m.Log.RecordRefresh(ctx, &uvdocs.RefreshRecord{
			ID:         report.ID,
			Version:    report.Version,
			Forced:     force,
			Succeeded:  report.Succeeded(),
			Failed:     report.Failed(),
			StartedAt:  started,
			FinishedAt: m.now(),
		})
	}

	return report, nil
}

// sectionResult holds the outcome of processing a single section.
type sectionResult struct {
	outcome SectionOutcome
	doc     *uvdocs.Document
}

// processSections fetches and extracts every section concurrently and
// returns results in section order.
func (m *Manager) processSections(ctx context.Context) []sectionResult {
	concurrency := m.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(m.Sections)
	results := make([]sectionResult, total)
	var completed atomic.Int64

	m.notify(ProgressEvent{Type: ProgressStarted, Total: total})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, sec := range m.Sections {
		g.Go(func() error {
			results[i] = m.processSection(gctx, sec)

			event := ProgressEvent{
				Type:      ProgressCompleted,
				Section:   sec.Name,
				Completed: int(completed.Add(1)),
				Total:     total,
			}
			if err := results[i].outcome.Err; err != nil {
				event.Type = ProgressFailed
				event.Error = err
			}
			m.notify(event)
			return nil
		})
	}
	_ = g.Wait()

	m.notify(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return results
}

// processSection fetches, extracts and, unless in atomic mode, stores one
// section.
func (m *Manager) processSection(ctx context.Context, sec uvdocs.Section) sectionResult {
	result := sectionResult{outcome: SectionOutcome{Section: sec.Name}}

	html, err := m.Fetcher.Fetch(ctx, sec.URL)
	if err != nil {
		result.outcome.Err = uvdocs.Errorf(uvdocs.EFETCH, "fetching %s: %v", sec.URL, err)
		return result
	}

	doc, err := m.Extractor.Extract(sec, html)
	if err != nil {
		if uvdocs.ErrorCode(err) == uvdocs.EINTERNAL {
			err = uvdocs.Errorf(uvdocs.EPARSE, "extracting %s: %v", sec.Name, err)
		}
		result.outcome.Err = err
		return result
	}
	if len(doc.Elements) == 0 {
		result.outcome.Err = uvdocs.Errorf(uvdocs.EPARSE, "no documentation found on %s", sec.URL)
		return result
	}

	result.doc = doc
	result.outcome.Elements = len(doc.Elements)

	if m.Atomic {
		return result
	}

	unlock := m.locks.lock(sec.Name)
	put, err := m.Store.PutDocument(ctx, doc)
	unlock()
	if err != nil {
		result.outcome.Err = err
		return result
	}
	result.outcome.Hash = put.Hash
	result.outcome.Changed = put.Changed
	return result
}

func (m *Manager) notify(event ProgressEvent) {
	if m.Progress != nil {
		m.Progress(event)
	}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// keyedMutex allows at most one holder per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
