package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the pattern lists driving the line filter. The three lists have
// distinct semantics:
//
//   - skip_patterns: drop the matching line, keep going (disclaimers, "Sent
//     from my iPhone" footers)
//   - stop_patterns: drop the matching line AND everything after it in the
//     body (forwarded-message banners; assumes top-posting)
//   - header_patterns: drop the matching line when it matches at line start
//     (From:/To:/Sent: header remnants inside forwards)
//
// All patterns are applied case-insensitively.
type Rules struct {
	SkipPatterns   []string `yaml:"skip_patterns"`
	StopPatterns   []string `yaml:"stop_patterns"`
	HeaderPatterns []string `yaml:"header_patterns"`
}

// DefaultRules returns the built-in Danish/English pattern lists. These match
// the clutter observed in the corpora the tool was written for; a rules file
// replaces them wholesale per list.
func DefaultRules() Rules {
	return Rules{
		SkipPatterns: []string{
			`Denne e-mail er alene til brug for adressaten`,
			`This email is intended only for`,
			`The information contained in this email`,
			`Privileged/Confidential Information`,
			`Sent from my iPhone`,
			`Sendt fra min mobil`,
			`Sendt fra min iPhone`,
			`Sendt fra min iPad`,
			`Sent from my iPad`,
			`Sendt fra Outlook til iOS`,
			`Hent Outlook til iOS`,
			`Get Outlook for iOS`,
		},
		StopPatterns: []string{
			`Begin forwarded message`,
			`Start på videresendt besked`,
			`-----Original Message-----`,
			`_________________________________________________`,
		},
		HeaderPatterns: []string{
			`^(From|Fra):`,
			`^(To|Til):`,
			`^(Sent|Date|Dato):`,
			`^(Subject|Emne):`,
			`^(Cc):`,
			`^On .* wrote:$`,
			`^Den .* skrev:$`,
		},
	}
}

// LoadRules reads a YAML rules file. A missing file (or empty path) yields
// the defaults. A list left empty in the file also falls back to its default,
// so operators can override a single list without restating the others.
func LoadRules(path string) (Rules, error) {
	defaults := DefaultRules()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if len(rules.SkipPatterns) == 0 {
		rules.SkipPatterns = defaults.SkipPatterns
	}
	if len(rules.StopPatterns) == 0 {
		rules.StopPatterns = defaults.StopPatterns
	}
	if len(rules.HeaderPatterns) == 0 {
		rules.HeaderPatterns = defaults.HeaderPatterns
	}
	return rules, nil
}
