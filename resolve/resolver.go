// Package resolve maps hierarchical documentation addresses to views over
// cached documents.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/uvdocs"
)

// Resolver resolves addresses against the current cache snapshot. It never
// fetches or mutates.
type Resolver struct {
	Store uvdocs.DocumentReader
}

// NewResolver creates a Resolver reading from store.
func NewResolver(store uvdocs.DocumentReader) *Resolver {
	return &Resolver{Store: store}
}

// ElementSummary is one entry of a section listing.
type ElementSummary struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Address     uvdocs.Address `json:"address"`
}

// SectionView lists a section's elements in stored order.
type SectionView struct {
	Section  string           `json:"section"`
	Elements []ElementSummary `json:"elements"`
}

// SubsectionRef points at one subsection of an element.
type SubsectionRef struct {
	Title   string         `json:"title"`
	Address uvdocs.Address `json:"address"`
}

// ElementView describes one element and its subsections.
type ElementView struct {
	Section     string          `json:"section"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Subsections []SubsectionRef `json:"subsections"`
}

// SubsectionView holds one subsection's content.
type SubsectionView struct {
	Section string   `json:"section"`
	Element string   `json:"element"`
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// Resolution is the result of resolving an address. Exactly one view is set,
// matching the address depth.
type Resolution struct {
	Address    uvdocs.Address  `json:"address"`
	Section    *SectionView    `json:"section,omitempty"`
	Element    *ElementView    `json:"element,omitempty"`
	Subsection *SubsectionView `json:"subsection,omitempty"`
}

// Resolve dispatches on the address depth. Misses return ENOSECTION,
// ENOELEMENT or ENOSUBSECTION; a malformed address returns EINVALID.
func (r *Resolver) Resolve(ctx context.Context, addr uvdocs.Address) (*Resolution, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	switch len(addr) {
	case 1:
		view, err := r.Section(ctx, addr[0])
		if err != nil {
			return nil, err
		}
		return &Resolution{Address: addr, Section: view}, nil
	case 2:
		view, err := r.Element(ctx, addr[0], addr[1])
		if err != nil {
			return nil, err
		}
		return &Resolution{Address: addr, Element: view}, nil
	default:
		view, err := r.Subsection(ctx, addr[0], addr[1], addr[2])
		if err != nil {
			return nil, err
		}
		return &Resolution{Address: addr, Subsection: view}, nil
	}
}

// Section lists every element of a section in stored order.
func (r *Resolver) Section(ctx context.Context, section string) (*SectionView, error) {
	doc, err := r.document(ctx, section)
	if err != nil {
		return nil, err
	}

	base := uvdocs.Address{doc.Section}
	view := &SectionView{Section: doc.Section, Elements: make([]ElementSummary, 0, len(doc.Elements))}
	for _, e := range doc.Elements {
		view.Elements = append(view.Elements, ElementSummary{
			Name:        e.Name,
			Description: e.Description,
			Address:     base.Child(e.Name),
		})
	}
	return view, nil
}

// Element describes one element and lists its subsections.
func (r *Resolver) Element(ctx context.Context, section, element string) (*ElementView, error) {
	doc, elem, err := r.element(ctx, section, element)
	if err != nil {
		return nil, err
	}

	base := uvdocs.Address{doc.Section, elem.Name}
	view := &ElementView{
		Section:     doc.Section,
		Name:        elem.Name,
		Description: elem.Description,
		Subsections: make([]SubsectionRef, 0, len(elem.Documentation)),
	}
	for _, s := range elem.Documentation {
		view.Subsections = append(view.Subsections, SubsectionRef{Title: s.Title, Address: base.Child(s.Title)})
	}
	return view, nil
}

// Subsection returns one subsection's content.
func (r *Resolver) Subsection(ctx context.Context, section, element, subsection string) (*SubsectionView, error) {
	doc, elem, err := r.element(ctx, section, element)
	if err != nil {
		return nil, err
	}

	sub := elem.FindSubsection(subsection)
	if sub == nil {
		return nil, uvdocs.Errorf(uvdocs.ENOSUBSECTION, "subsection %q not found in %s/%s", subsection, doc.Section, elem.Name)
	}
	return &SubsectionView{Section: doc.Section, Element: elem.Name, Title: sub.Title, Content: sub.Content}, nil
}

// document reads a section. Absent, unreadable and faulty reads all
// surface as ENOSECTION.
func (r *Resolver) document(ctx context.Context, section string) (*uvdocs.Document, error) {
	doc, err := r.Store.Document(ctx, section)
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.ENOSECTION, "section %q not found", section)
	}
	return doc, nil
}

func (r *Resolver) element(ctx context.Context, section, element string) (*uvdocs.Document, *uvdocs.Element, error) {
	doc, err := r.document(ctx, section)
	if err != nil {
		return nil, nil, err
	}
	elem := doc.FindElement(element)
	if elem == nil {
		return nil, nil, uvdocs.Errorf(uvdocs.ENOELEMENT, "element %q not found in section %q", element, doc.Section)
	}
	return doc, elem, nil
}

// Text renders the resolution as plain text.
func (res *Resolution) Text() string {
	var b strings.Builder
	switch {
	case res.Section != nil:
		fmt.Fprintf(&b, "# %s\n", uvdocs.Title(res.Section.Section))
		for _, e := range res.Section.Elements {
			fmt.Fprintf(&b, "\n- %s (%s)", e.Name, e.Address)
			if e.Description != "" {
				fmt.Fprintf(&b, "\n  %s", e.Description)
			}
		}
	case res.Element != nil:
		fmt.Fprintf(&b, "# %s\n", res.Element.Name)
		if res.Element.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", res.Element.Description)
		}
		for _, s := range res.Element.Subsections {
			fmt.Fprintf(&b, "\n- %s (%s)", s.Title, s.Address)
		}
	case res.Subsection != nil:
		fmt.Fprintf(&b, "# %s: %s\n", res.Subsection.Element, res.Subsection.Title)
		for _, line := range res.Subsection.Content {
			fmt.Fprintf(&b, "\n%s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
