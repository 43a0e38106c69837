package mock

import "github.com/fwojciec/uvdocs"

var _ uvdocs.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of uvdocs.Extractor.
type Extractor struct {
	ExtractFn func(section uvdocs.Section, html string) (*uvdocs.Document, error)
}

func (e *Extractor) Extract(section uvdocs.Section, html string) (*uvdocs.Document, error) {
	return e.ExtractFn(section, html)
}
