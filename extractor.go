package uvdocs

// Extractor turns a section's raw HTML into a Document.
type Extractor interface {
	// Extract walks the page's primary headings and returns one element per
	// heading. A page without primary headings yields an empty, valid
	// Document. Input that cannot be read at all returns EPARSE.
	Extract(section Section, html string) (*Document, error)
}
