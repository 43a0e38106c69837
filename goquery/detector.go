package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Framework identifies the generator that produced a documentation page.
type Framework string

// Recognized documentation frameworks.
const (
	FrameworkUnknown    Framework = ""
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkVuePress   Framework = "vuepress"
)

// contentSelectors maps each framework to the container that holds the
// article body.
var contentSelectors = map[Framework]string{
	FrameworkMkDocs:     ".md-content",
	FrameworkSphinx:     "div[role='main'], .body",
	FrameworkDocusaurus: ".theme-doc-markdown, article",
	FrameworkVitePress:  ".vp-doc",
	FrameworkVuePress:   ".theme-default-content",
}

// ContentSelector returns the article container selector for a framework,
// or "" if the framework is unknown.
func ContentSelector(f Framework) string {
	return contentSelectors[f]
}

// Detect identifies the documentation framework of a parsed page using the
// meta generator tag first, then framework-specific markers.
func Detect(doc *goquery.Document) Framework {
	if f := detectFromMetaGenerator(doc); f != FrameworkUnknown {
		return f
	}

	switch {
	case hasSelector(doc, "[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"):
		return FrameworkMkDocs
	case hasSelector(doc, ".toctree-wrapper", ".wy-nav-side", ".sphinxsidebar"):
		return FrameworkSphinx
	case hasSelector(doc, "#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"):
		return FrameworkDocusaurus
	case hasSelector(doc, "#VPContent", ".VPDoc"):
		return FrameworkVitePress
	case hasSelector(doc, ".theme-default-content", ".vuepress-navbar"):
		return FrameworkVuePress
	}
	return FrameworkUnknown
}

func detectFromMetaGenerator(doc *goquery.Document) Framework {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))
	if generator == "" {
		return FrameworkUnknown
	}

	switch {
	case strings.Contains(generator, "mkdocs"):
		return FrameworkMkDocs
	case strings.Contains(generator, "sphinx"):
		return FrameworkSphinx
	case strings.Contains(generator, "docusaurus"):
		return FrameworkDocusaurus
	case strings.Contains(generator, "vitepress"):
		return FrameworkVitePress
	case strings.Contains(generator, "vuepress"):
		return FrameworkVuePress
	}
	return FrameworkUnknown
}

func hasSelector(doc *goquery.Document, selectors ...string) bool {
	for _, sel := range selectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}
