package entity

import (
	"fmt"
	"sort"
	"strings"
)

// UserProfile is the caller's intolerance profile. It is built once per
// request and never mutated afterwards.
type UserProfile struct {
	Intolerances []string `json:"intolerances"`
	Notes        string   `json:"notes"`
}

// Describe renders the profile as the sentence that is embedded verbatim in
// every rating prompt. Identical profiles must always render identically, so
// intolerances are deduplicated and joined in lexicographic order. The
// incoming list models a set and carries no order of its own.
func (p UserProfile) Describe() string {
	names := make([]string, 0, len(p.Intolerances))
	seen := make(map[string]struct{}, len(p.Intolerances))
	for _, name := range p.Intolerances {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf(
		"The user is intolerant to %s. He also has the following notes: %s",
		strings.Join(names, ","), p.Notes,
	)
}
