// Package goquery implements HTML extraction for uv reference pages using
// goquery CSS selection over golang.org/x/net/html trees.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/uvdocs"
)

// DefaultContentSelector selects the MkDocs Material article container.
const DefaultContentSelector = ".md-content"

// Ensure Extractor implements uvdocs.Extractor at compile time.
var _ uvdocs.Extractor = (*Extractor)(nil)

// Extractor builds Documents from reference pages laid out as a run of h2
// headings, each followed by h3/h4 sub-headings, paragraphs, lists, code
// blocks and definition lists.
type Extractor struct {
	// ContentSelector picks the container whose h2 headings become elements.
	// When nothing matches, the detected framework's container is tried, then
	// the whole body.
	ContentSelector string
}

// NewExtractor creates a new Extractor using DefaultContentSelector.
func NewExtractor() *Extractor {
	return &Extractor{ContentSelector: DefaultContentSelector}
}

// Extract parses html and returns one element per h2 heading.
func (e *Extractor) Extract(section uvdocs.Section, html string) (*uvdocs.Document, error) {
	if strings.TrimSpace(html) == "" {
		return nil, uvdocs.Errorf(uvdocs.EPARSE, "empty HTML for section %q", section.Name)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.EPARSE, "failed to parse HTML for section %q: %v", section.Name, err)
	}

	root := e.contentRoot(doc)
	root.Find(".headerlink").Remove()

	out := uvdocs.NewDocument(section.Name)
	names := uvdocs.NewUniqueNames()

	root.Find("h2").Each(func(_ int, heading *goquery.Selection) {
		name := uvdocs.CleanText(heading.Text())
		if name == "" {
			return
		}

		siblings := heading.NextUntil("h2")
		nodes := classifyAll(siblings)

		out.Elements = append(out.Elements, &uvdocs.Element{
			Name:          names.Next(name),
			Description:   describe(siblings, section.Description),
			Documentation: walk(nodes),
		})
	})

	return out, nil
}

func (e *Extractor) contentRoot(doc *goquery.Document) *goquery.Selection {
	selector := e.ContentSelector
	if selector == "" {
		selector = DefaultContentSelector
	}
	if root := doc.Find(selector).First(); root.Length() > 0 {
		return root
	}
	if fallback := ContentSelector(Detect(doc)); fallback != "" {
		if root := doc.Find(fallback).First(); root.Length() > 0 {
			return root
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// describe reads an element's description from the siblings of its heading.
func describe(siblings *goquery.Selection, mode uvdocs.DescriptionMode) string {
	if mode == uvdocs.DescriptionLead {
		return describeLead(siblings)
	}
	p := siblings.Filter("p").First()
	if p.Length() == 0 {
		return ""
	}
	return uvdocs.CleanText(p.Text())
}

// describeLead joins the paragraphs, admonitions and list items that come
// before the first secondary heading.
func describeLead(siblings *goquery.Selection) string {
	var sb strings.Builder
	siblings.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		switch goquery.NodeName(sel) {
		case "h3", "h4":
			return false
		case "p":
			sb.WriteString(" " + uvdocs.CleanText(sel.Text()))
		case "ul", "ol":
			sel.Find("li").Each(func(_ int, li *goquery.Selection) {
				sb.WriteString("\n- " + uvdocs.CleanText(li.Text()))
			})
		case "div":
			if sel.HasClass("admonition") {
				sb.WriteString(" " + uvdocs.CleanText(sel.Text()))
			}
		}
		return true
	})
	return strings.TrimSpace(sb.String())
}
