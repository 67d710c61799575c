package textfilter

import (
	"regexp"
	"strings"
)

// minSignificantLen is the normalized-length floor below which lines are
// never deduplicated and paragraphs are never matched against ignored
// blocks. Short strings ("Thanks", "Hej") collide too easily and usually
// carry meaning of their own.
const minSignificantLen = 10

var leadingQuoteMarkers = regexp.MustCompile(`^[\s>]+`)

// Normalize canonicalizes text for comparison: every whitespace run
// (including newlines) collapses to a single space, the result is trimmed
// and lower-cased. Normalize is stable and idempotent.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// normalizeLine prepares a single line for cross-message duplicate
// detection. Leading quote markers are stripped first, so a quoted copy in
// a reply compares equal to the unquoted original it repeats.
func normalizeLine(line string) string {
	return Normalize(leadingQuoteMarkers.ReplaceAllString(line, ""))
}
