package textfilter

// Deduper removes lines that are mere repetition (quoting) of the
// immediately preceding message in a thread. Lookback is exactly one
// message: replies usually quote their direct predecessor, and a deeper
// window produces false positives on recurring phrases. State is replaced,
// not accumulated, after each message.
type Deduper struct {
	prev map[string]struct{}
}

// NewDeduper returns a Deduper with empty lookback state.
func NewDeduper() *Deduper {
	return &Deduper{prev: map[string]struct{}{}}
}

// Reset clears the lookback state. Call at every thread boundary.
func (d *Deduper) Reset() {
	d.prev = map[string]struct{}{}
}

// Apply returns the lines of the current message that are not duplicates of
// the previous message, and installs the current message's normalized lines
// as the new lookback set. Lines whose normalized form is shorter than the
// significance floor are always kept.
func (d *Deduper) Apply(lines []string) []string {
	current := make(map[string]struct{}, len(lines))
	var kept []string
	for _, line := range lines {
		norm := normalizeLine(line)
		current[norm] = struct{}{}

		if len(norm) >= minSignificantLen {
			if _, dup := d.prev[norm]; dup {
				continue
			}
		}
		kept = append(kept, line)
	}
	d.prev = current
	return kept
}
