package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/cache"
	"github.com/fwojciec/uvdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSections = []uvdocs.Section{
	{Name: "cli", URL: "https://docs.example.com/cli/"},
	{Name: "settings", URL: "https://docs.example.com/settings/"},
	{Name: "resolver", URL: "https://docs.example.com/resolver/"},
}

// memStore is a map-backed CacheStore that records the order of writes.
type memStore struct {
	mu      sync.Mutex
	version *uvdocs.VersionRecord
	docs    map[string]*uvdocs.Document
	writes  []string
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]*uvdocs.Document)}
}

func (s *memStore) mock() *mock.CacheStore {
	return &mock.CacheStore{
		DocumentFn: func(_ context.Context, section string) (*uvdocs.Document, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			doc, ok := s.docs[section]
			if !ok {
				return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no cached data")
			}
			return doc, nil
		},
		VersionFn: func(_ context.Context) (*uvdocs.VersionRecord, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.version == nil {
				return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no version recorded")
			}
			rec := *s.version
			return &rec, nil
		},
		SetVersionFn: func(_ context.Context, rec uvdocs.VersionRecord) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.version = &rec
			s.writes = append(s.writes, "version")
			return nil
		},
		PutDocumentFn: func(_ context.Context, doc *uvdocs.Document) (uvdocs.PutResult, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.docs[doc.Section] = doc
			s.writes = append(s.writes, doc.Section)
			return uvdocs.PutResult{Hash: "h-" + doc.Section, Changed: true}, nil
		},
		CommitFn: func(_ context.Context, rec uvdocs.VersionRecord, docs []*uvdocs.Document) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.version = &rec
			s.writes = append(s.writes, "commit")
			for _, doc := range docs {
				s.docs[doc.Section] = doc
			}
			return nil
		},
		SectionsFn: func(_ context.Context) ([]string, error) {
			return nil, nil
		},
		ClearFn: func(_ context.Context) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.version = nil
			s.docs = make(map[string]*uvdocs.Document)
			return nil
		},
	}
}

func oracle(version string) *mock.VersionOracle {
	return &mock.VersionOracle{
		CurrentVersionFn: func(_ context.Context) uvdocs.VersionRecord {
			return uvdocs.VersionRecord{Version: version}
		},
	}
}

func fetcher(failing ...string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			for _, f := range failing {
				if url == f {
					return "", errors.New("HTTP 503")
				}
			}
			return "<html>" + url + "</html>", nil
		},
		CloseFn: func() error { return nil },
	}
}

func extractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(section uvdocs.Section, _ string) (*uvdocs.Document, error) {
			doc := uvdocs.NewDocument(section.Name)
			doc.Elements = append(doc.Elements, &uvdocs.Element{Name: section.Name + "-element"})
			return doc, nil
		},
	}
}

func newManager(store *memStore, version string, failing ...string) *cache.Manager {
	return cache.NewManager(testSections, fetcher(failing...), extractor(), oracle(version), store.mock())
}

func TestManager_Initialize(t *testing.T) {
	t.Parallel()

	t.Run("populates empty cache", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		m := newManager(store, "0.5.11")

		report, err := m.Initialize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "0.5.11", report.Version)
		assert.NotEmpty(t, report.ID)
		assert.Equal(t, 3, report.Succeeded())
		assert.Len(t, store.docs, 3)
		assert.Equal(t, "0.5.11", store.version.Version)
	})

	t.Run("skips initialized cache", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.10"}
		m := newManager(store, "0.5.11")
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Fatal("unexpected fetch")
				return "", nil
			},
		}

		report, err := m.Initialize(context.Background())

		require.NoError(t, err)
		assert.True(t, report.Skipped)
		assert.Equal(t, "0.5.10", report.Version)
	})

	t.Run("persists unknown sentinel when oracle fails", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		m := newManager(store, uvdocs.Unknown)

		_, err := m.Initialize(context.Background())
		require.NoError(t, err)

		rec, err := store.mock().Version(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uvdocs.Unknown, rec.Version)
	})

	t.Run("keeps going when one section fails", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		m := newManager(store, "0.5.11", "https://docs.example.com/settings/")

		report, err := m.Initialize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, report.Succeeded())
		assert.Equal(t, 1, report.Failed())
		assert.Equal(t, uvdocs.EFETCH, uvdocs.ErrorCode(report.Sections[1].Err))
		assert.Contains(t, store.docs, "cli")
		assert.Contains(t, store.docs, "resolver")
		assert.NotContains(t, store.docs, "settings")
	})
}

func TestManager_IsValid(t *testing.T) {
	t.Parallel()

	t.Run("true when versions match", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.11"}

		assert.True(t, newManager(store, "0.5.11").IsValid(context.Background()))
	})

	t.Run("false when versions differ", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.10"}

		assert.False(t, newManager(store, "0.5.11").IsValid(context.Background()))
	})

	t.Run("false when no version stored", func(t *testing.T) {
		t.Parallel()

		assert.False(t, newManager(newMemStore(), "0.5.11").IsValid(context.Background()))
	})

	t.Run("unknown on both sides compares equal", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: uvdocs.Unknown}

		assert.True(t, newManager(store, uvdocs.Unknown).IsValid(context.Background()))
	})
}

func TestManager_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("does nothing when cache is valid", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.11"}
		m := newManager(store, "0.5.11")

		report, err := m.Refresh(context.Background(), false)

		require.NoError(t, err)
		assert.True(t, report.UpToDate)
		assert.Empty(t, store.writes)
		assert.Equal(t, "Cache is up to date with current UV version", report.String())
	})

	t.Run("force refreshes a valid cache and leaves it valid", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.11"}
		m := newManager(store, "0.5.11")

		report, err := m.Refresh(context.Background(), true)

		require.NoError(t, err)
		assert.False(t, report.UpToDate)
		assert.True(t, report.Forced)
		assert.Len(t, store.docs, 3)
		assert.True(t, m.IsValid(context.Background()))
	})

	t.Run("writes version before any section", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		m := newManager(store, "0.5.11")

		_, err := m.Refresh(context.Background(), false)

		require.NoError(t, err)
		require.Len(t, store.writes, 4)
		assert.Equal(t, "version", store.writes[0])
		assert.ElementsMatch(t, []string{"cli", "settings", "resolver"}, store.writes[1:])
	})

	t.Run("persists unknown when oracle fails entirely", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.10"}
		m := newManager(store, uvdocs.Unknown)

		report, err := m.Refresh(context.Background(), false)

		require.NoError(t, err)
		assert.Equal(t, uvdocs.Unknown, report.Version)
		rec, err := store.mock().Version(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uvdocs.VersionRecord{Version: uvdocs.Unknown}, *rec)
	})

	t.Run("treats empty extraction as parse failure and keeps old copy", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		old := uvdocs.NewDocument("cli")
		old.Elements = append(old.Elements, &uvdocs.Element{Name: "uv sync"})
		store.docs["cli"] = old

		m := newManager(store, "0.5.11")
		m.Extractor = &mock.Extractor{
			ExtractFn: func(section uvdocs.Section, _ string) (*uvdocs.Document, error) {
				return uvdocs.NewDocument(section.Name), nil
			},
		}

		report, err := m.Refresh(context.Background(), true)

		require.NoError(t, err)
		assert.Equal(t, 3, report.Failed())
		assert.Equal(t, uvdocs.EPARSE, uvdocs.ErrorCode(report.Sections[0].Err))
		assert.Same(t, old, store.docs["cli"])
	})

	t.Run("wraps plain extractor errors as parse failures", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		m := newManager(store, "0.5.11")
		m.Extractor = &mock.Extractor{
			ExtractFn: func(_ uvdocs.Section, _ string) (*uvdocs.Document, error) {
				return nil, errors.New("boom")
			},
		}

		report, err := m.Refresh(context.Background(), true)

		require.NoError(t, err)
		for _, s := range report.Sections {
			assert.Equal(t, uvdocs.EPARSE, uvdocs.ErrorCode(s.Err))
		}
	})

	t.Run("returns error when version write fails", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		m := newManager(store, "0.5.11")
		failing := store.mock()
		failing.SetVersionFn = func(_ context.Context, _ uvdocs.VersionRecord) error {
			return uvdocs.Errorf(uvdocs.ECACHEIO, "disk full")
		}
		m.Store = failing

		_, err := m.Refresh(context.Background(), true)

		assert.Equal(t, uvdocs.ECACHEIO, uvdocs.ErrorCode(err))
	})

	t.Run("atomic mode commits version and documents together", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		m := newManager(store, "0.5.11")
		m.Atomic = true

		report, err := m.Refresh(context.Background(), true)

		require.NoError(t, err)
		assert.Equal(t, []string{"commit"}, store.writes)
		assert.Equal(t, "0.5.11", store.version.Version)
		assert.Len(t, store.docs, 3)
		assert.False(t, report.RolledBack)
	})

	t.Run("atomic mode commits nothing when a section fails", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.10"}
		old := uvdocs.NewDocument("resolver")
		store.docs["resolver"] = old
		m := newManager(store, "0.5.11", "https://docs.example.com/resolver/")
		m.Atomic = true

		report, err := m.Refresh(context.Background(), false)

		require.NoError(t, err)
		assert.True(t, report.RolledBack)
		assert.Equal(t, 1, report.Failed())
		assert.Empty(t, store.writes)
		assert.Equal(t, "0.5.10", store.version.Version)
		assert.Same(t, old, store.docs["resolver"])
		assert.False(t, m.IsValid(context.Background()))

		again, err := m.Refresh(context.Background(), false)

		require.NoError(t, err)
		assert.False(t, again.UpToDate)
	})

	t.Run("records refresh history", func(t *testing.T) {
		t.Parallel()

		var recorded *uvdocs.RefreshRecord
		store := newMemStore()
		m := newManager(store, "0.5.11", "https://docs.example.com/cli/")
		m.Log = &mock.RefreshLog{
			RecordRefreshFn: func(_ context.Context, rec *uvdocs.RefreshRecord) error {
				recorded = rec
				return errors.New("history unavailable")
			},
		}

		report, err := m.Refresh(context.Background(), true)

		require.NoError(t, err)
		require.NotNil(t, recorded)
		assert.Equal(t, report.ID, recorded.ID)
		assert.Equal(t, "0.5.11", recorded.Version)
		assert.True(t, recorded.Forced)
		assert.Equal(t, 2, recorded.Succeeded)
		assert.Equal(t, 1, recorded.Failed)
	})

	t.Run("reports progress for every section", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var events []cache.ProgressEvent
		m := newManager(newMemStore(), "0.5.11", "https://docs.example.com/cli/")
		m.Concurrency = 1
		m.Progress = func(e cache.ProgressEvent) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}

		_, err := m.Refresh(context.Background(), true)

		require.NoError(t, err)
		require.Len(t, events, 5)
		assert.Equal(t, cache.ProgressStarted, events[0].Type)
		assert.Equal(t, cache.ProgressFailed, events[1].Type)
		assert.Equal(t, "cli", events[1].Section)
		assert.Equal(t, cache.ProgressFinished, events[4].Type)
	})
}

func TestManager_Clear(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	m := newManager(store, "0.5.11")
	ctx := context.Background()

	_, err := m.Initialize(ctx)
	require.NoError(t, err)
	require.NoError(t, m.Clear(ctx))

	assert.Empty(t, store.docs)
	assert.False(t, m.IsValid(ctx))

	report, err := m.Initialize(ctx)
	require.NoError(t, err)
	assert.False(t, report.Skipped)
}

func TestManager_Concurrency(t *testing.T) {
	t.Parallel()

	t.Run("collapses concurrent refreshes into one cycle", func(t *testing.T) {
		t.Parallel()

		var lookups atomic.Int32
		release := make(chan struct{})
		store := newMemStore()
		m := newManager(store, "0.5.11")
		m.Oracle = &mock.VersionOracle{
			CurrentVersionFn: func(_ context.Context) uvdocs.VersionRecord {
				lookups.Add(1)
				<-release
				return uvdocs.VersionRecord{Version: "0.5.11"}
			},
		}

		const callers = 5
		reports := make([]*cache.Report, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				report, err := m.Refresh(context.Background(), true)
				assert.NoError(t, err)
				reports[i] = report
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), lookups.Load())
		for _, r := range reports {
			assert.Same(t, reports[0], r)
		}
	})

	t.Run("never writes the same section twice at once", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		inFlight := make(map[string]bool)
		var overlaps, puts atomic.Int32

		store := newMemStore()
		store.version = &uvdocs.VersionRecord{Version: "0.5.10"}
		mocked := store.mock()
		mocked.SetVersionFn = func(_ context.Context, _ uvdocs.VersionRecord) error {
			return nil
		}
		mocked.PutDocumentFn = func(_ context.Context, doc *uvdocs.Document) (uvdocs.PutResult, error) {
			mu.Lock()
			if inFlight[doc.Section] {
				overlaps.Add(1)
			}
			inFlight[doc.Section] = true
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)
			puts.Add(1)

			mu.Lock()
			inFlight[doc.Section] = false
			mu.Unlock()
			return uvdocs.PutResult{Hash: "h-" + doc.Section, Changed: true}, nil
		}
		m := newManager(store, "0.5.11")
		m.Store = mocked

		var wg sync.WaitGroup
		for _, force := range []bool{true, false} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := m.Refresh(context.Background(), force)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(0), overlaps.Load())
		assert.Equal(t, int32(2*len(testSections)), puts.Load())
	})
}
