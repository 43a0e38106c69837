package cache

import (
	"fmt"
	"strings"

	"github.com/fwojciec/uvdocs"
)

// Report describes the outcome of Initialize or Refresh.
type Report struct {
	ID      string
	Version string
	Forced  bool

	// UpToDate is set when Refresh found the cache valid and did nothing.
	UpToDate bool

	// Skipped is set when Initialize found an existing cache.
	Skipped bool

	// RolledBack is set when an atomic refresh had failed sections and
	// committed nothing.
	RolledBack bool

	// Sections holds one outcome per configured section, in section order.
	Sections []SectionOutcome
}

// SectionOutcome is the result of refreshing one section.
type SectionOutcome struct {
	Section  string
	Elements int
	Hash     string
	Changed  bool
	Err      error
}

// Succeeded returns the number of sections that were cached.
func (r *Report) Succeeded() int {
	var n int
	for _, s := range r.Sections {
		if s.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of sections that failed to update.
func (r *Report) Failed() int {
	return len(r.Sections) - r.Succeeded()
}

// String renders the report for people.
func (r *Report) String() string {
	switch {
	case r.UpToDate:
		return "Cache is up to date with current UV version"
	case r.Skipped:
		return fmt.Sprintf("Cache already initialized:\n- UV Version: %s", r.Version)
	}

	var b strings.Builder
	if r.RolledBack {
		b.WriteString("Cache not updated, no changes committed:\n")
	} else {
		b.WriteString("Cache updated successfully:\n")
	}
	fmt.Fprintf(&b, "- UV Version: %s", r.Version)
	for _, s := range r.Sections {
		b.WriteString("\n")
		switch {
		case s.Err != nil:
			fmt.Fprintf(&b, "- %s: Failed to update (%s)", uvdocs.Title(s.Section), uvdocs.ErrorMessage(s.Err))
		case r.RolledBack:
			fmt.Fprintf(&b, "- %s: %d elements extracted", uvdocs.Title(s.Section), s.Elements)
		default:
			fmt.Fprintf(&b, "- %s: %d elements cached", uvdocs.Title(s.Section), s.Elements)
		}
	}
	return b.String()
}
