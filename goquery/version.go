package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/uvdocs"
	"golang.org/x/net/html"
)

// Ensure PageVersionSource implements uvdocs.VersionSource at compile time.
var _ uvdocs.VersionSource = (*PageVersionSource)(nil)

// PageVersionSource reads the uv version from the text of a documentation page.
type PageVersionSource struct {
	Fetcher uvdocs.Fetcher
	URL     string
}

// NewPageVersionSource creates a PageVersionSource scanning the page at url.
func NewPageVersionSource(fetcher uvdocs.Fetcher, url string) *PageVersionSource {
	return &PageVersionSource{Fetcher: fetcher, URL: url}
}

// Name returns the source's identifier.
func (s *PageVersionSource) Name() string {
	return "docs-page"
}

// LatestVersion fetches the page and scans it with ScanVersion.
func (s *PageVersionSource) LatestVersion(ctx context.Context) (string, error) {
	page, err := s.Fetcher.Fetch(ctx, s.URL)
	if err != nil {
		return "", uvdocs.Errorf(uvdocs.EFETCH, "fetching %s: %v", s.URL, err)
	}
	return ScanVersion(page)
}

// ScanVersion finds the first text node whose lowercase text contains
// "version" and has at least two words, and returns its last word.
// Returns EPARSE when no such text node exists.
func ScanVersion(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", uvdocs.Errorf(uvdocs.EPARSE, "failed to parse HTML: %v", err)
	}

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	for _, n := range root.Nodes {
		if v, ok := scanNode(n); ok {
			return v, nil
		}
	}
	return "", uvdocs.Errorf(uvdocs.EPARSE, "no version text found")
}

// scanNode walks n depth-first in document order.
func scanNode(n *html.Node) (string, bool) {
	switch n.Type {
	case html.TextNode:
		text := uvdocs.CleanText(n.Data)
		if !strings.Contains(strings.ToLower(text), "version") {
			return "", false
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return "", false
		}
		return fields[len(fields)-1], true
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return "", false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if v, ok := scanNode(c); ok {
			return v, true
		}
	}
	return "", false
}
