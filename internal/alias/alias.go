package alias

import (
	"net/mail"
	"strings"
)

// Unknown is the sentinel label returned for an empty address.
const Unknown = "Unknown"

// Resolver maps raw sender/recipient addresses to human-friendly display
// labels. It is a pure lookup over the alias map loaded at startup.
type Resolver struct {
	aliases map[string]string
}

// New returns a Resolver over the given address → label map. Keys are
// expected lower-cased (config.LoadAliases guarantees this); a nil map is a
// valid empty resolver.
func New(aliases map[string]string) *Resolver {
	return &Resolver{aliases: aliases}
}

// Resolve returns the display label for an address. Matching is
// case-insensitive and accepts both bare addresses and the
// "Name <email>" form, in which case the enclosed address is looked up.
// Unmatched addresses are returned unchanged; an empty address resolves to
// Unknown.
func (r *Resolver) Resolve(address string) string {
	if strings.TrimSpace(address) == "" {
		return Unknown
	}

	key := strings.ToLower(strings.TrimSpace(address))
	if label, ok := r.aliases[key]; ok {
		return label
	}

	if parsed, err := mail.ParseAddress(address); err == nil {
		if label, ok := r.aliases[strings.ToLower(parsed.Address)]; ok {
			return label
		}
	}

	return address
}
