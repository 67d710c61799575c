package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Load reads the corpus JSON produced by the upstream extraction stage.
// Threads without any messages are dropped; the rest are sorted ascending by
// the date of their first message so downstream processing is chronological.
func Load(path string) ([]Thread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}

	var threads []Thread
	if err := json.Unmarshal(data, &threads); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
	}

	return Sort(threads), nil
}

// Sort drops message-less threads and orders the remainder ascending by
// first-message date. The sort is stable so threads sharing a start date
// keep their input order.
func Sort(threads []Thread) []Thread {
	kept := make([]Thread, 0, len(threads))
	for _, t := range threads {
		if len(t.Messages) > 0 {
			kept = append(kept, t)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartDate() < kept[j].StartDate()
	})
	return kept
}
