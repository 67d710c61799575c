package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// The list files are deliberately plain line-oriented text so operators can
// maintain them by hand: one entry per line, blank lines and lines starting
// with '#' ignored. Every list is optional; a missing file is an empty list.

// LoadSet reads a file of one entry per line into a set. Used for ignored
// message IDs and ignored attachment fingerprints.
func LoadSet(path string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	err := eachLine(path, func(line string) {
		set[line] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// LoadAliases reads an alias list of "address: label" lines into a map keyed
// by lower-cased address. Lines without a colon are skipped.
func LoadAliases(path string) (map[string]string, error) {
	aliases := make(map[string]string)
	err := eachLine(path, func(line string) {
		addr, label, ok := strings.Cut(line, ":")
		if !ok {
			return
		}
		addr = strings.ToLower(strings.TrimSpace(addr))
		label = strings.TrimSpace(label)
		if addr != "" && label != "" {
			aliases[addr] = label
		}
	})
	if err != nil {
		return nil, err
	}
	return aliases, nil
}

// LoadBlocks reads a file of multi-line text blocks separated by blank lines.
// Comment lines are dropped even inside a block. The blocks are returned raw;
// normalization for matching happens in the filter.
func LoadBlocks(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open block list %s: %w", path, err)
	}
	defer f.Close()

	return readBlocks(f)
}

func readBlocks(r io.Reader) ([]string, error) {
	var blocks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "#"):
			// comment, never part of a block
		default:
			current = append(current, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read block list: %w", err)
	}
	flush()
	return blocks, nil
}

// eachLine applies fn to every non-blank, non-comment line of path. A missing
// file or an empty path is treated as an empty list.
func eachLine(path string, fn func(line string)) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open list %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read list %s: %w", path, err)
	}
	return nil
}
