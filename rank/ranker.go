// Package rank scores cached elements against free-text queries with a
// fixed, explainable tier table.
package rank

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/fwojciec/uvdocs"
)

// Defaults for Ranker.
const (
	DefaultLimit         = 3
	DefaultContentPrefix = 3
)

// Tier weights, strongest first.
const (
	WeightSectionExact   = 3.0
	WeightSectionPartial = 2.0
	WeightNameExact      = 2.0
	WeightNamePartial    = 1.0
	WeightWord           = 0.75
	WeightSubstring      = 0.5
	WeightFuzzy          = 0.25
)

// FuzzyThreshold is the minimum similarity for a fuzzy match.
const FuzzyThreshold = 0.6

// fuzzyGate is the score below which fuzzy matching is attempted.
const fuzzyGate = 1.0

// Ensure Ranker implements uvdocs.Searcher at compile time.
var _ uvdocs.Searcher = (*Ranker)(nil)

// Ranker scores every cached element per query. Nothing is indexed.
type Ranker struct {
	Store    uvdocs.DocumentReader
	Sections []string

	// Limit caps the number of results. Zero means DefaultLimit.
	Limit int

	// ContentPrefix is how many content lines of each subsection are
	// searched. Zero means DefaultContentPrefix.
	ContentPrefix int
}

// NewRanker creates a Ranker over the named sections.
func NewRanker(store uvdocs.DocumentReader, sections []string) *Ranker {
	return &Ranker{
		Store:         store,
		Sections:      sections,
		Limit:         DefaultLimit,
		ContentPrefix: DefaultContentPrefix,
	}
}

// Entry is the query-time search aggregate of one element.
type Entry struct {
	Section     string
	Name        string
	Description string
	Address     uvdocs.Address

	// Text is the lowercased name, description, non-reserved subsection
	// titles and content prefix, whitespace collapsed.
	Text string
}

// BuildCorpus derives one entry per cached element, sections in order and
// elements in stored order. Unreadable sections are skipped.
func (r *Ranker) BuildCorpus(ctx context.Context) []Entry {
	prefix := r.ContentPrefix
	if prefix <= 0 {
		prefix = DefaultContentPrefix
	}

	var entries []Entry
	for _, section := range r.Sections {
		doc, err := r.Store.Document(ctx, section)
		if err != nil {
			continue
		}
		for _, e := range doc.Elements {
			entries = append(entries, newEntry(section, e, prefix))
		}
	}
	return entries
}

func newEntry(section string, e *uvdocs.Element, prefix int) Entry {
	var titles, content []string
	for _, s := range e.Documentation {
		if !s.IsReserved() {
			titles = append(titles, s.Title)
		}
		content = append(content, s.Content[:min(prefix, len(s.Content))]...)
	}

	text := strings.Join([]string{e.Name, e.Description, strings.Join(titles, ", "), strings.Join(content, " ")}, " ")
	return Entry{
		Section:     section,
		Name:        e.Name,
		Description: e.Description,
		Address:     uvdocs.Address{section, e.Name},
		Text:        strings.Join(strings.Fields(strings.ToLower(text)), " "),
	}
}

// Keywords splits a query on whitespace into lowercase keywords.
func Keywords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Search ranks the corpus against query. Entries scoring at or below the
// fuzzy weight are dropped, ties keep corpus order and at most Limit results
// are returned. A blank query returns EINVALID.
func (r *Ranker) Search(ctx context.Context, query string) ([]uvdocs.SearchResult, error) {
	keywords := Keywords(query)
	if len(keywords) == 0 {
		return nil, uvdocs.Errorf(uvdocs.EINVALID, "search query must not be empty")
	}

	results := make([]uvdocs.SearchResult, 0)
	for _, entry := range r.BuildCorpus(ctx) {
		score, matches := Score(entry, keywords)
		if score <= WeightFuzzy {
			continue
		}
		results = append(results, uvdocs.SearchResult{
			Section:     entry.Section,
			Name:        entry.Name,
			Description: entry.Description,
			Address:     entry.Address,
			Score:       score,
			Matches:     matches,
		})
	}

	slices.SortStableFunc(results, func(a, b uvdocs.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Score sums, per keyword, the strongest section tier, the strongest name
// tier and the strongest text tier. Fuzzy matches against the name and
// section are added only when that sum stays below 1.0.
func Score(e Entry, keywords []string) (float64, []uvdocs.Match) {
	section := strings.ToLower(e.Section)
	name := strings.ToLower(e.Name)
	padded := " " + e.Text + " "

	var score float64
	var matches []uvdocs.Match
	add := func(keyword string, kind uvdocs.MatchKind, weight float64) {
		score += weight
		matches = append(matches, uvdocs.Match{Keyword: keyword, Kind: kind, Weight: weight})
	}

	for _, kw := range keywords {
		switch {
		case kw == section:
			add(kw, uvdocs.MatchSectionExact, WeightSectionExact)
		case strings.Contains(section, kw):
			add(kw, uvdocs.MatchSectionPartial, WeightSectionPartial)
		}

		switch {
		case kw == name:
			add(kw, uvdocs.MatchNameExact, WeightNameExact)
		case strings.Contains(name, kw):
			add(kw, uvdocs.MatchNamePartial, WeightNamePartial)
		}
	}

	for _, kw := range keywords {
		switch {
		case strings.Contains(padded, " "+kw+" "):
			add(kw, uvdocs.MatchWord, WeightWord)
		case strings.Contains(e.Text, kw):
			add(kw, uvdocs.MatchSubstring, WeightSubstring)
		}
	}

	if score < fuzzyGate {
		for _, kw := range keywords {
			if Similarity(kw, name) >= FuzzyThreshold || Similarity(kw, section) >= FuzzyThreshold {
				add(kw, uvdocs.MatchFuzzy, WeightFuzzy)
			}
		}
	}

	return score, matches
}

// Similarity returns 1 minus the edit distance between a and b divided by
// the longer length, in runes. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// FormatResults renders results for people.
func FormatResults(results []uvdocs.SearchResult) string {
	if len(results) == 0 {
		return "No matching resources found."
	}
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Resource: %s\nName: %s\nDescription: %s", r.Address, r.Name, r.Description))
	}
	return "Best matching resources:\n\n" + strings.Join(blocks, "\n\n")
}
