package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/cache"
	main "github.com/fwojciec/uvdocs/cmd/uvdocs"
	"github.com/fwojciec/uvdocs/mock"
	"github.com/fwojciec/uvdocs/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache implements main.CacheManager with function fields.
type fakeCache struct {
	InitializeFn func(ctx context.Context) (*cache.Report, error)
	IsValidFn    func(ctx context.Context) bool
	RefreshFn    func(ctx context.Context, force bool) (*cache.Report, error)
	ClearFn      func(ctx context.Context) error
}

func (c *fakeCache) Initialize(ctx context.Context) (*cache.Report, error) {
	return c.InitializeFn(ctx)
}

func (c *fakeCache) IsValid(ctx context.Context) bool {
	return c.IsValidFn(ctx)
}

func (c *fakeCache) Refresh(ctx context.Context, force bool) (*cache.Report, error) {
	return c.RefreshFn(ctx, force)
}

func (c *fakeCache) Clear(ctx context.Context) error {
	return c.ClearFn(ctx)
}

// fakeInfos implements main.SectionInfoLister.
type fakeInfos []*sqlite.SectionInfo

func (f fakeInfos) SectionInfos(context.Context) ([]*sqlite.SectionInfo, error) {
	return f, nil
}

func TestInitCmd_Run(t *testing.T) {
	t.Parallel()

	cm := &fakeCache{
		InitializeFn: func(context.Context) (*cache.Report, error) {
			return &cache.Report{Version: "0.5.1", Skipped: true}, nil
		},
	}
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Cache: cm}

	err := (&main.InitCmd{}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, "Cache already initialized:\n- UV Version: 0.5.1\n", stdout.String())
}

func TestRefreshCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes force and prints report", func(t *testing.T) {
		t.Parallel()

		var gotForce bool
		cm := &fakeCache{
			RefreshFn: func(_ context.Context, force bool) (*cache.Report, error) {
				gotForce = force
				return &cache.Report{Version: "0.5.1", Sections: []cache.SectionOutcome{{Section: "cli", Elements: 3}}}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Cache: cm}

		err := (&main.RefreshCmd{Force: true}).Run(deps)

		require.NoError(t, err)
		assert.True(t, gotForce)
		assert.Contains(t, stdout.String(), "- Cli: 3 elements cached")
	})

	t.Run("reports failure", func(t *testing.T) {
		t.Parallel()

		cm := &fakeCache{
			RefreshFn: func(context.Context, bool) (*cache.Report, error) {
				return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "database is locked")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Cache: cm}

		err := (&main.RefreshCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Failed to update cache: database is locked")
	})
}

func TestStatusCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("uninitialized", func(t *testing.T) {
		t.Parallel()

		store := &mock.CacheStore{
			VersionFn: func(context.Context) (*uvdocs.VersionRecord, error) {
				return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no version recorded")
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Store: store}

		err := (&main.StatusCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Cache not initialized")
	})

	t.Run("lists sections and last refresh", func(t *testing.T) {
		t.Parallel()

		when := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		store := &mock.CacheStore{
			VersionFn: func(context.Context) (*uvdocs.VersionRecord, error) {
				return &uvdocs.VersionRecord{Version: "0.5.1"}, nil
			},
		}
		refreshes := &mock.RefreshLog{
			LastRefreshFn: func(context.Context) (*uvdocs.RefreshRecord, error) {
				return &uvdocs.RefreshRecord{Version: "0.5.1", Succeeded: 2, Failed: 1, FinishedAt: when}, nil
			},
		}
		cm := &fakeCache{IsValidFn: func(context.Context) bool { return true }}
		infos := fakeInfos{{Name: "cli", ElementCount: 12, ContentHash: "00ff00ff00ff00ff", UpdatedAt: when}}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Cache:  cm,
			Store:  store,
			Infos:  infos,
			Log:    refreshes,
		}

		err := (&main.StatusCmd{Check: true}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "UV Version: 0.5.1")
		assert.Contains(t, out, "State: up to date")
		assert.Contains(t, out, "cli")
		assert.Contains(t, out, "12 elements")
		assert.Contains(t, out, "00ff00ff00ff00ff")
		assert.Contains(t, out, "Last refresh: 2026-10-01T12:00:00Z (2 succeeded, 1 failed)")
	})
}

func TestClearCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires --force", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr}

		err := (&main.ClearCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, uvdocs.EINVALID, uvdocs.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("clears", func(t *testing.T) {
		t.Parallel()

		var cleared bool
		cm := &fakeCache{ClearFn: func(context.Context) error {
			cleared = true
			return nil
		}}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Cache: cm}

		err := (&main.ClearCmd{Force: true}).Run(deps)

		require.NoError(t, err)
		assert.True(t, cleared)
		assert.Equal(t, "Cache cleared\n", stdout.String())
	})
}
