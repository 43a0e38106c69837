package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/fs"
	"github.com/fwojciec/uvdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(docs ...*uvdocs.Document) *mock.CacheStore {
	reader := mock.NewDocumentReader(docs...)
	return &mock.CacheStore{
		DocumentFn: reader.DocumentFn,
		VersionFn: func(context.Context) (*uvdocs.VersionRecord, error) {
			return &uvdocs.VersionRecord{Version: "0.5.1"}, nil
		},
		SectionsFn: func(context.Context) ([]string, error) {
			names := make([]string, 0, len(docs))
			for _, d := range docs {
				names = append(names, d.Section)
			}
			return names, nil
		},
	}
}

func cliDoc() *uvdocs.Document {
	return &uvdocs.Document{
		Type:    uvdocs.DocumentType,
		Section: "cli",
		Elements: []*uvdocs.Element{
			{
				Name:        "uv sync",
				Description: "Update the project's environment.",
				Documentation: []*uvdocs.Subsection{
					{Title: "Usage", Content: []string{uvdocs.ExamplePrefix + "uv sync [OPTIONS]"}},
					{Title: "Options", Content: []string{"--frozen: Sync without updating the uv.lock file"}},
				},
			},
			{Name: "uv lock", Description: "Update the project's lockfile."},
		},
	}
}

func TestFormatElement(t *testing.T) {
	t.Parallel()

	got := fs.FormatElement("0.5.1", "cli", cliDoc().Elements[0])

	want := "---\n" +
		"address: uv-docs://cli/uv-sync\n" +
		"section: cli\n" +
		"uv_version: 0.5.1\n" +
		"---\n\n" +
		"# uv sync\n\n" +
		"Update the project's environment.\n\n" +
		"## Usage\n\n" +
		"```\nuv sync [OPTIONS]\n```\n\n" +
		"## Options\n\n" +
		"--frozen: Sync without updating the uv.lock file\n"
	assert.Equal(t, want, got)
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes one file per element", func(t *testing.T) {
		t.Parallel()

		target := filepath.Join(t.TempDir(), "docs")
		n, err := fs.NewExporter(newStore(cliDoc()), target).Export(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.FileExists(t, filepath.Join(target, "cli", "uv-sync.md"))
		assert.FileExists(t, filepath.Join(target, "cli", "uv-lock.md"))
		assert.FileExists(t, filepath.Join(target, fs.MarkerFile))
		assert.NoDirExists(t, target+".tmp")
	})

	t.Run("replaces a previous export", func(t *testing.T) {
		t.Parallel()

		target := filepath.Join(t.TempDir(), "docs")
		_, err := fs.NewExporter(newStore(cliDoc()), target).Export(context.Background())
		require.NoError(t, err)

		settings := &uvdocs.Document{Type: uvdocs.DocumentType, Section: "settings", Elements: []*uvdocs.Element{{Name: "cache-dir"}}}
		n, err := fs.NewExporter(newStore(settings), target).Export(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.FileExists(t, filepath.Join(target, "settings", "cache-dir.md"))
		assert.NoDirExists(t, filepath.Join(target, "cli"))
	})

	t.Run("refuses foreign directory", func(t *testing.T) {
		t.Parallel()

		target := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(target, "keep.txt"), []byte("mine"), 0o644))

		_, err := fs.NewExporter(newStore(cliDoc()), target).Export(context.Background())

		assert.Equal(t, uvdocs.ECONFLICT, uvdocs.ErrorCode(err))
		assert.FileExists(t, filepath.Join(target, "keep.txt"))
	})

	t.Run("uninitialized cache", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		store.VersionFn = func(context.Context) (*uvdocs.VersionRecord, error) {
			return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no version recorded")
		}

		_, err := fs.NewExporter(store, filepath.Join(t.TempDir(), "docs")).Export(context.Background())

		assert.Equal(t, uvdocs.ENOTFOUND, uvdocs.ErrorCode(err))
	})

	t.Run("disambiguates colliding file names", func(t *testing.T) {
		t.Parallel()

		doc := &uvdocs.Document{Type: uvdocs.DocumentType, Section: "cli", Elements: []*uvdocs.Element{{Name: "uv run"}, {Name: "uv-run"}}}
		target := filepath.Join(t.TempDir(), "docs")

		n, err := fs.NewExporter(newStore(doc), target).Export(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.FileExists(t, filepath.Join(target, "cli", "uv-run.md"))
		assert.FileExists(t, filepath.Join(target, "cli", "uv-run-1.md"))
	})
}
