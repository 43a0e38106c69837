package uvdocs

import (
	"strconv"
	"strings"
)

// DefaultBaseURL is the root of the uv documentation site.
const DefaultBaseURL = "https://docs.astral.sh/uv"

// DescriptionMode selects how an element's description is read from the page.
type DescriptionMode int

const (
	// DescriptionFirstParagraph uses the first paragraph after the primary heading.
	DescriptionFirstParagraph DescriptionMode = iota

	// DescriptionLead joins every paragraph, admonition and list that appears
	// between the primary heading and the first secondary heading.
	DescriptionLead
)

// Section is a named top-level documentation topic backed by one page.
type Section struct {
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	Description DescriptionMode `json:"description"`
}

// Validate returns an error if the section contains invalid fields.
func (s Section) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "section name required")
	}
	if s.URL == "" {
		return Errorf(EINVALID, "section %q URL required", s.Name)
	}
	return nil
}

// DefaultSections returns the cli, settings and resolver reference sections
// rooted at baseURL. An empty baseURL means DefaultBaseURL.
func DefaultSections(baseURL string) []Section {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return []Section{
		{Name: "cli", URL: baseURL + "/reference/cli/"},
		{Name: "settings", URL: baseURL + "/reference/settings/"},
		{Name: "resolver", URL: baseURL + "/reference/resolver-internals/", Description: DescriptionLead},
	}
}

// SectionNames returns the names of sections in order.
func SectionNames(sections []Section) []string {
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.Name)
	}
	return names
}

// FindSection returns the section whose name matches segment.
func FindSection(sections []Section, segment string) (Section, bool) {
	for _, s := range sections {
		if SegmentEqual(s.Name, segment) {
			return s, true
		}
	}
	return Section{}, false
}

// UniqueNames hands out names that are unique under SegmentEqual. Repeats get
// a numeric suffix: "Examples", "Examples-1", "Examples-2".
type UniqueNames struct {
	counts map[string]int
}

// NewUniqueNames returns an empty UniqueNames.
func NewUniqueNames() *UniqueNames {
	return &UniqueNames{counts: make(map[string]int)}
}

// Next returns name, or name with a numeric suffix if it was handed out before.
func (u *UniqueNames) Next(name string) string {
	key := normalizeSegment(name)
	count, exists := u.counts[key]
	if !exists {
		u.counts[key] = 1
		return name
	}
	for {
		candidate := name + "-" + strconv.Itoa(count)
		count++
		if _, taken := u.counts[normalizeSegment(candidate)]; !taken {
			u.counts[key] = count
			u.counts[normalizeSegment(candidate)] = 1
			return candidate
		}
	}
}
