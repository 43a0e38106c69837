package uvdocs

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var punctuationReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"–", "-",
	"—", "-",
)

// CleanText normalizes prose: NFKC, ASCII quotes and dashes, and every run of
// whitespace (including newlines and tabs) collapsed to a single space.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = punctuationReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// CleanCode normalizes a code block: NFKC and tabs expanded to four spaces.
// Line breaks and indentation are kept.
func CleanCode(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\t", "    ")
	return strings.Trim(s, " \n\r")
}
