package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/uvdocs"
	"golang.org/x/net/html"
)

// nodeKind is the role a sibling of a primary heading plays in an element.
type nodeKind int

const (
	kindIgnored nodeKind = iota
	kindHeading          // h3/h4: starts a named subsection
	kindText             // p, ul, ol, pre: one cleaned line
	kindOptions          // dl: "term: definition" lines for the Options bucket
	kindCode             // highlighted code container: one example entry
)

// node is the classified, immutable form of one sibling element.
type node struct {
	kind  nodeKind
	text  string
	lines []string
}

// classifyAll classifies every element in sel, in document order.
func classifyAll(sel *goquery.Selection) []node {
	nodes := make([]node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if n := classify(s); n.kind != kindIgnored {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

// classify maps one sibling element to exactly one node kind.
func classify(sel *goquery.Selection) node {
	if len(sel.Nodes) == 0 || sel.Nodes[0].Type != html.ElementNode {
		return node{}
	}

	switch goquery.NodeName(sel) {
	case "h3", "h4":
		return node{kind: kindHeading, text: uvdocs.CleanText(sel.Text())}
	case "p", "ul", "ol", "pre":
		text := uvdocs.CleanText(sel.Text())
		if text == "" {
			return node{}
		}
		return node{kind: kindText, text: text}
	case "dl":
		return classifyDefinitions(sel)
	case "div":
		if !isCodeContainer(sel) {
			return node{}
		}
		pre := sel.Find("pre").First()
		if pre.Length() == 0 {
			return node{}
		}
		code := uvdocs.CleanCode(pre.Text())
		if code == "" {
			return node{}
		}
		return node{kind: kindCode, text: uvdocs.ExamplePrefix + code}
	}
	return node{}
}

// classifyDefinitions pairs the list's dt and dd children in order.
func classifyDefinitions(sel *goquery.Selection) node {
	terms := sel.ChildrenFiltered("dt")
	defs := sel.ChildrenFiltered("dd")

	n := min(terms.Length(), defs.Length())
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		term := uvdocs.CleanText(terms.Eq(i).Text())
		def := uvdocs.CleanText(defs.Eq(i).Text())
		lines = append(lines, term+": "+def)
	}
	if len(lines) == 0 {
		return node{}
	}
	return node{kind: kindOptions, lines: lines}
}

func isCodeContainer(sel *goquery.Selection) bool {
	return sel.HasClass("highlight") || sel.HasClass("highlight-default")
}

// bucketMode tracks where free content goes while walking an element.
type bucketMode int

const (
	// modeGeneral: no secondary heading seen yet, content is pending in the
	// General bucket.
	modeGeneral bucketMode = iota

	// modeActive: content goes to the most recent named subsection.
	modeActive
)

// entry is an accumulated subsection. implicit marks the General buckets
// built from content that preceded any heading.
type entry struct {
	sub      *uvdocs.Subsection
	implicit bool
}

// walkState is the accumulator for one element's sibling walk.
type walkState struct {
	mode     bucketMode
	general  []string
	sections []entry
	options  []string
}

// walk folds the classified siblings of one primary heading into the
// element's subsections.
func walk(nodes []node) []*uvdocs.Subsection {
	var st walkState
	for _, n := range nodes {
		st.step(n)
	}
	return st.finish()
}

func (st *walkState) step(n node) {
	switch n.kind {
	case kindHeading:
		st.flushGeneral()
		st.sections = append(st.sections, entry{sub: &uvdocs.Subsection{Title: n.text, Content: []string{}}})
		st.mode = modeActive
	case kindText, kindCode:
		st.appendContent(n.text)
	case kindOptions:
		st.options = append(st.options, n.lines...)
	}
}

func (st *walkState) appendContent(line string) {
	switch st.mode {
	case modeActive:
		active := st.sections[len(st.sections)-1].sub
		active.Content = append(active.Content, line)
	default:
		st.general = append(st.general, line)
	}
}

func (st *walkState) flushGeneral() {
	if len(st.general) == 0 {
		return
	}
	st.sections = append(st.sections, entry{
		sub:      &uvdocs.Subsection{Title: uvdocs.TitleGeneral, Content: st.general},
		implicit: true,
	})
	st.general = nil
}

// finish flushes the pending buckets and enforces the subsection invariants:
// no empty content, adjacent General buckets merged, unique titles. Named
// headings are never merged, even when titled General.
func (st *walkState) finish() []*uvdocs.Subsection {
	st.flushGeneral()
	if len(st.options) > 0 {
		st.sections = append(st.sections, entry{sub: &uvdocs.Subsection{Title: uvdocs.TitleOptions, Content: st.options}})
		st.options = nil
	}

	merged := make([]entry, 0, len(st.sections))
	for _, e := range st.sections {
		if len(e.sub.Content) == 0 {
			continue
		}
		if last := len(merged) - 1; last >= 0 && e.implicit && merged[last].implicit {
			merged[last].sub.Content = append(merged[last].sub.Content, e.sub.Content...)
			continue
		}
		merged = append(merged, e)
	}

	titles := uvdocs.NewUniqueNames()
	out := make([]*uvdocs.Subsection, 0, len(merged))
	for _, e := range merged {
		e.sub.Title = titles.Next(e.sub.Title)
		out = append(out, e.sub)
	}
	return out
}
