package uvdocs

import (
	"net/url"
	"strings"
)

// Scheme is the URI scheme of documentation addresses.
const Scheme = "uv-docs"

// Address is a hierarchical documentation address: [section],
// [section, element] or [section, element, subsection].
type Address []string

// ParseAddress parses "uv-docs://section/element/subsection" or a bare
// "section/element" path into an Address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, Scheme+"://"); ok {
		s = rest
	} else if strings.Contains(s, "://") {
		return nil, Errorf(EINVALID, "unsupported address scheme in %q", s)
	}

	var addr Address
	for _, part := range strings.Split(s, "/") {
		if part == "" {
			continue
		}
		seg, err := url.PathUnescape(part)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid address segment %q", part)
		}
		addr = append(addr, seg)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// Validate returns an error unless the address has one to three segments.
func (a Address) Validate() error {
	if len(a) == 0 || len(a) > 3 {
		return Errorf(EINVALID, "address must have 1 to 3 segments, got %d", len(a))
	}
	for _, seg := range a {
		if strings.TrimSpace(seg) == "" {
			return Errorf(EINVALID, "address segment must not be blank")
		}
	}
	return nil
}

// String returns the canonical URI form, e.g. "uv-docs://cli/uv-sync/options".
func (a Address) String() string {
	parts := make([]string, len(a))
	for i, seg := range a {
		parts[i] = url.PathEscape(Slug(seg))
	}
	return Scheme + "://" + strings.Join(parts, "/")
}

// Child returns a new address with segment appended.
func (a Address) Child(segment string) Address {
	child := make(Address, len(a), len(a)+1)
	copy(child, a)
	return append(child, segment)
}

// Slug lowercases s and replaces runs of spaces with a single hyphen.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// SegmentEqual compares two address segments case-insensitively, treating
// hyphens and spaces as equivalent.
func SegmentEqual(a, b string) bool {
	return normalizeSegment(a) == normalizeSegment(b)
}

func normalizeSegment(s string) string {
	return Slug(strings.ReplaceAll(s, "-", " "))
}
