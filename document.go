package uvdocs

import (
	"context"
	"strings"
	"time"
)

// DocumentType is the type tag written into every persisted section payload.
const DocumentType = "documentation_section"

// Reserved subsection titles produced by the extractor rather than by a heading.
const (
	TitleGeneral = "General"
	TitleOptions = "Options"
)

// ExamplePrefix marks a content entry that holds a code example.
const ExamplePrefix = "Example:\n"

// Document is the cached representation of one documentation section.
// Documents are replaced wholesale on refresh and are read-only otherwise.
type Document struct {
	Type     string     `json:"type"`
	Section  string     `json:"section"`
	Elements []*Element `json:"elements"`
}

// NewDocument returns an empty document for the named section.
func NewDocument(section string) *Document {
	return &Document{
		Type:     DocumentType,
		Section:  section,
		Elements: []*Element{},
	}
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Section == "" {
		return Errorf(EINVALID, "document section required")
	}
	for _, e := range d.Elements {
		if e.Name == "" {
			return Errorf(EINVALID, "element name required in section %q", d.Section)
		}
	}
	return nil
}

// FindElement returns the element whose name matches segment, comparing with
// SegmentEqual. Returns nil if there is no such element.
func (d *Document) FindElement(segment string) *Element {
	for _, e := range d.Elements {
		if SegmentEqual(e.Name, segment) {
			return e
		}
	}
	return nil
}

// Element is one addressable topic within a section, such as a command or a
// setting.
type Element struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Documentation []*Subsection `json:"documentation"`
}

// FindSubsection returns the subsection whose title matches segment, comparing
// with SegmentEqual. Returns nil if there is no such subsection.
func (e *Element) FindSubsection(segment string) *Subsection {
	for _, s := range e.Documentation {
		if SegmentEqual(s.Title, segment) {
			return s
		}
	}
	return nil
}

// Subsection is a named block of content within an element.
type Subsection struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// IsReserved reports whether the subsection title is one of the extractor's
// buckets rather than a heading.
func (s *Subsection) IsReserved() bool {
	return s.Title == TitleGeneral || s.Title == TitleOptions
}

// Unknown is the version sentinel meaning the upstream version could not be
// determined. It is distinct from an absent version record.
const Unknown = "unknown"

// VersionRecord holds the last known upstream version.
type VersionRecord struct {
	Version string `json:"version"`
}

// IsUnknown reports whether the record carries the Unknown sentinel.
func (r VersionRecord) IsUnknown() bool {
	return r.Version == Unknown
}

// DocumentReader reads cached documents.
type DocumentReader interface {
	// Document returns the cached document for a section.
	// Returns ENOTFOUND if the section is absent or its payload is unreadable.
	Document(ctx context.Context, section string) (*Document, error)
}

// PutResult describes the outcome of storing a document.
type PutResult struct {
	Hash    string
	Changed bool
}

// CacheStore persists one document per section plus one version record.
type CacheStore interface {
	DocumentReader

	// Version returns the stored version record.
	// Returns ENOTFOUND if no version has been recorded.
	Version(ctx context.Context) (*VersionRecord, error)

	// SetVersion replaces the stored version record.
	SetVersion(ctx context.Context, rec VersionRecord) error

	// PutDocument replaces the stored document for doc.Section.
	PutDocument(ctx context.Context, doc *Document) (PutResult, error)

	// Commit writes the version record and all documents in a single
	// transaction.
	Commit(ctx context.Context, rec VersionRecord, docs []*Document) error

	// Sections returns the names of all cached sections, sorted by name.
	Sections(ctx context.Context) ([]string, error)

	// Clear removes every cached document and the version record.
	Clear(ctx context.Context) error
}

// RefreshRecord is one entry in the refresh history.
type RefreshRecord struct {
	ID         string    `json:"id"`
	Version    string    `json:"version"`
	Forced     bool      `json:"forced"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RefreshLog records refresh cycles.
type RefreshLog interface {
	RecordRefresh(ctx context.Context, rec *RefreshRecord) error

	// LastRefresh returns the most recent refresh.
	// Returns ENOTFOUND if no refresh has been recorded.
	LastRefresh(ctx context.Context) (*RefreshRecord, error)
}

// Title returns the display title for a section name (e.g. "cli" -> "Cli").
func Title(section string) string {
	if section == "" {
		return ""
	}
	return strings.ToUpper(section[:1]) + section[1:]
}
