package uvdocs

import "context"

// MatchKind names the scoring tier a keyword matched.
type MatchKind string

// Scoring tiers, strongest first.
const (
	MatchSectionExact   MatchKind = "section_exact"
	MatchSectionPartial MatchKind = "section_partial"
	MatchNameExact      MatchKind = "name_exact"
	MatchNamePartial    MatchKind = "name_partial"
	MatchWord           MatchKind = "word"
	MatchSubstring      MatchKind = "substring"
	MatchFuzzy          MatchKind = "fuzzy"
)

// Match records one scoring contribution.
type Match struct {
	Keyword string    `json:"keyword"`
	Kind    MatchKind `json:"kind"`
	Weight  float64   `json:"weight"`
}

// SearchResult is one ranked element.
type SearchResult struct {
	Section     string  `json:"section"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     Address `json:"address"`
	Score       float64 `json:"score"`
	Matches     []Match `json:"matches,omitempty"`
}

// Searcher ranks cached elements against a free-text query.
type Searcher interface {
	// Search returns at most a handful of results ordered by relevance.
	// Returns EINVALID for a blank query and an empty slice when nothing
	// matches.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Asker answers natural language questions from cached documentation.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}
