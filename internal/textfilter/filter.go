package textfilter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/config"
)

var paragraphSplit = regexp.MustCompile(`\n[ \t]*\n`)

// Filter removes clutter from a raw message body: ignored multi-line blocks,
// blank lines, quoted lines, disclaimer/boilerplate lines, header remnants,
// and everything after a hard-boundary line. Construct once per run; safe to
// reuse across messages.
type Filter struct {
	skip          []*regexp.Regexp
	stop          []*regexp.Regexp
	header        []*regexp.Regexp
	ignoredBlocks []string // pre-normalized
}

// New compiles the rule lists. The ignoredBlocks are raw operator-supplied
// text blocks; they are normalized here, once.
func New(rules config.Rules, ignoredBlocks []string) (*Filter, error) {
	f := &Filter{}

	var err error
	if f.skip, err = compileAll(rules.SkipPatterns); err != nil {
		return nil, fmt.Errorf("failed to compile skip patterns: %w", err)
	}
	if f.stop, err = compileAll(rules.StopPatterns); err != nil {
		return nil, fmt.Errorf("failed to compile stop patterns: %w", err)
	}
	if f.header, err = compileAnchored(rules.HeaderPatterns); err != nil {
		return nil, fmt.Errorf("failed to compile header patterns: %w", err)
	}

	for _, block := range ignoredBlocks {
		if norm := Normalize(block); norm != "" {
			f.ignoredBlocks = append(f.ignoredBlocks, norm)
		}
	}
	return f, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// compileAnchored compiles patterns with an enforced line-start anchor.
// Header rules describe how a quoted-reply header line begins, so a rule
// like `From:` must not drop a line that merely mentions "From:" mid-text.
func compileAnchored(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)^(?:` + p + `)`)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// FilterBody applies the ignored-block and line rules to a raw body and
// returns the retained lines, verbatim and in order. An empty result is a
// normal outcome (e.g. a body that was entirely forwarded history).
func (f *Filter) FilterBody(body string) []string {
	if body == "" {
		return nil
	}
	if len(f.ignoredBlocks) > 0 {
		body = f.dropIgnoredParagraphs(body)
	}

	var kept []string
	for _, line := range strings.Split(body, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if matchAny(f.stop, stripped) {
			// Hard boundary: the rest of the body is quoted/forwarded history.
			break
		}
		if strings.HasPrefix(stripped, ">") {
			continue
		}
		if matchAny(f.skip, stripped) {
			continue
		}
		if matchAny(f.header, stripped) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// dropIgnoredParagraphs removes paragraphs matching an ignored block. The
// match is substring containment in either direction on normalized text, and
// only paragraphs above the significance floor are eligible, so an ignored
// block never swallows a trivially short paragraph.
func (f *Filter) dropIgnoredParagraphs(body string) string {
	paragraphs := paragraphSplit.Split(body, -1)
	kept := paragraphs[:0]
	for _, p := range paragraphs {
		norm := Normalize(p)
		if len(norm) > minSignificantLen && f.matchesIgnoredBlock(norm) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "\n\n")
}

func (f *Filter) matchesIgnoredBlock(normalizedParagraph string) bool {
	for _, block := range f.ignoredBlocks {
		if strings.Contains(block, normalizedParagraph) || strings.Contains(normalizedParagraph, block) {
			return true
		}
	}
	return false
}

func matchAny(patterns []*regexp.Regexp, line string) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
