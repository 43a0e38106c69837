// Package fs exports the cached documentation as a tree of markdown files,
// one file per element, for use by tools that read plain files.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/uvdocs"
)

// MarkerFile identifies a directory written by Exporter. Export only
// replaces directories that are empty, absent or carry the marker.
const MarkerFile = ".uvdocs-export"

// Exporter writes cached sections to disk with atomic replace semantics.
// Files are written to baseDir/name.tmp and moved to baseDir/name on success.
type Exporter struct {
	store   uvdocs.CacheStore
	baseDir string
	name    string
}

// NewExporter creates an Exporter writing to the directory at path.
func NewExporter(store uvdocs.CacheStore, path string) *Exporter {
	path = filepath.Clean(path)
	return &Exporter{
		store:   store,
		baseDir: filepath.Dir(path),
		name:    filepath.Base(path),
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Export writes <section>/<element>.md for every cached element and returns
// the number of files written. Returns ENOTFOUND if the cache has no version
// record and ECONFLICT if the target holds files Export did not write.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	rec, err := e.store.Version(ctx)
	if err != nil {
		return 0, err
	}
	if err := e.checkTarget(); err != nil {
		return 0, err
	}

	sections, err := e.store.Sections(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.RemoveAll(e.tempDir()); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(e.tempDir(), 0o755); err != nil {
		return 0, err
	}
	var n int
	for _, section := range sections {
		doc, err := e.store.Document(ctx, section)
		if err != nil {
			// Unreadable sections are skipped like absent ones.
			continue
		}
		written, err := e.writeSection(rec.Version, doc)
		if err != nil {
			_ = e.abort()
			return 0, err
		}
		n += written
	}
	if err := os.WriteFile(filepath.Join(e.tempDir(), MarkerFile), []byte(rec.Version+"\n"), 0o644); err != nil {
		_ = e.abort()
		return 0, err
	}

	return n, e.commit()
}

func (e *Exporter) writeSection(version string, doc *uvdocs.Document) (int, error) {
	dir := filepath.Join(e.tempDir(), fileName(doc.Section))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	files := uvdocs.NewUniqueNames()
	for _, elem := range doc.Elements {
		name := files.Next(fileName(elem.Name))
		content := FormatElement(version, doc.Section, elem)
		if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0o644); err != nil {
			return 0, err
		}
	}
	return len(doc.Elements), nil
}

// fileName slugs s and keeps it within one path segment.
func fileName(s string) string {
	return strings.ReplaceAll(uvdocs.Slug(s), string(filepath.Separator), "-")
}

// checkTarget refuses to replace a non-empty directory without the marker.
func (e *Exporter) checkTarget() error {
	entries, err := os.ReadDir(e.finalDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(e.finalDir(), MarkerFile)); err != nil {
		return uvdocs.Errorf(uvdocs.ECONFLICT, "%s is not empty and was not written by export", e.finalDir())
	}
	return nil
}

func (e *Exporter) commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

func (e *Exporter) abort() error {
	return os.RemoveAll(e.tempDir())
}

// FormatElement renders an element as markdown with YAML frontmatter.
// Example entries become fenced code blocks.
func FormatElement(version, section string, elem *uvdocs.Element) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("address: ")
	b.WriteString(uvdocs.Address{section, elem.Name}.String())
	b.WriteString("\nsection: ")
	b.WriteString(section)
	b.WriteString("\nuv_version: ")
	b.WriteString(version)
	b.WriteString("\n---\n\n# ")
	b.WriteString(elem.Name)
	b.WriteString("\n")
	if elem.Description != "" {
		b.WriteString("\n")
		b.WriteString(elem.Description)
		b.WriteString("\n")
	}
	for _, sub := range elem.Documentation {
		b.WriteString("\n## ")
		b.WriteString(sub.Title)
		b.WriteString("\n")
		for _, line := range sub.Content {
			b.WriteString("\n")
			if code, ok := strings.CutPrefix(line, uvdocs.ExamplePrefix); ok {
				b.WriteString("```\n")
				b.WriteString(code)
				b.WriteString("\n```\n")
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
