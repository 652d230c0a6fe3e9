/*
match.go - Tolerant name matching

PURPOSE:
  Decides whether a stored officer name matches a free-text query,
  tolerating case, accents, rank prefixes, typos and partial input.
  Intentionally permissive: this serves a human-operated search box,
  so false positives are accepted in favor of recall.

STRATEGY ORDER (short-circuit on first success):
  1. Exact match after normalization
  2. Exact match after stripping a known rank prefix from both sides
  3. Substring containment either direction (>=4 chars)
  4. Any shared word token (>=4 chars)
  5. Bounded Levenshtein distance with a length-adaptive threshold

ALIASES:
  Known-problematic stored names carry extra query terms in a data
  table (Options.Aliases). The alias terms run through the same
  pipeline; there are no per-name conditionals in the code.

SEE ALSO:
  - normalize.go: The shared normal form
  - corps/types.go: Authored rank prefixes and aliases
*/
package search

import "strings"

// minFragmentLen gates substring and token strategies, avoiding trivial
// false positives from very short fragments.
const minFragmentLen = 4

// Options configures a Matcher from authored tables.
type Options struct {
	// RankPrefixes are the rank tokens strategy 2 strips, in any case
	// or accent form ("3º SGT", "CB", ...).
	RankPrefixes []string

	// Aliases maps a stored display name to extra terms that should
	// also match it.
	Aliases map[string][]string

	// MaxDistance is the Levenshtein threshold for names longer than
	// five normalized characters. Zero means the default of 2.
	MaxDistance int
}

// =============================================================================
// MATCHER
// =============================================================================

type Matcher struct {
	prefixes    []string            // normalized rank prefixes, longest first
	aliases     map[string][]string // normalized name -> normalized terms
	maxDistance int
}

func NewMatcher(opts Options) *Matcher {
	m := &Matcher{
		aliases:     make(map[string][]string),
		maxDistance: opts.MaxDistance,
	}
	if m.maxDistance == 0 {
		m.maxDistance = 2
	}
	for _, p := range opts.RankPrefixes {
		if n := Normalize(p); n != "" {
			m.prefixes = append(m.prefixes, n)
		}
	}
	// Longest first so "1º sgt" is stripped before "st" could be.
	for i := 1; i < len(m.prefixes); i++ {
		for j := i; j > 0 && len(m.prefixes[j]) > len(m.prefixes[j-1]); j-- {
			m.prefixes[j], m.prefixes[j-1] = m.prefixes[j-1], m.prefixes[j]
		}
	}
	for name, terms := range opts.Aliases {
		key := Normalize(name)
		for _, t := range terms {
			m.aliases[key] = append(m.aliases[key], Normalize(t))
		}
	}
	return m
}

// Matches reports whether query should find candidate.
func (m *Matcher) Matches(candidate, query string) bool {
	c := Normalize(candidate)
	q := Normalize(query)
	if c == "" || q == "" {
		return false
	}

	if m.matchNormalized(c, q) {
		return true
	}
	for _, alias := range m.aliases[c] {
		if m.matchNormalized(alias, q) {
			return true
		}
	}
	return false
}

func (m *Matcher) matchNormalized(c, q string) bool {
	// 1. Exact
	if c == q {
		return true
	}

	// 2. Exact after rank stripping on both sides
	cs, qs := m.stripRank(c), m.stripRank(q)
	if cs == qs && cs != "" {
		return true
	}

	// 3. Substring either direction
	if len(q) >= minFragmentLen && strings.Contains(c, q) {
		return true
	}
	if len(c) >= minFragmentLen && strings.Contains(q, c) {
		return true
	}

	// 4. Shared word token
	if m.sharesToken(c, q) {
		return true
	}

	// 5. Edit distance on the rank-stripped forms
	return m.withinDistance(cs, qs)
}

// stripRank removes one leading rank prefix (and a stray "pm" marker)
// from a normalized name.
func (m *Matcher) stripRank(s string) string {
	for _, p := range m.prefixes {
		if s == p {
			return ""
		}
		if strings.HasPrefix(s, p+" ") {
			s = strings.TrimPrefix(s, p+" ")
			break
		}
	}
	return strings.TrimPrefix(s, "pm ")
}

func (m *Matcher) sharesToken(c, q string) bool {
	for _, cw := range strings.Fields(c) {
		if len(cw) < minFragmentLen {
			continue
		}
		for _, qw := range strings.Fields(q) {
			if cw == qw {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) withinDistance(c, q string) bool {
	if c == "" || q == "" {
		return false
	}
	shorter := len([]rune(c))
	if l := len([]rune(q)); l < shorter {
		shorter = l
	}
	threshold := m.maxDistance
	switch {
	case shorter <= 3:
		threshold = 0
	case shorter <= 5:
		threshold = 1
	}
	return levenshtein(c, q) <= threshold
}

// levenshtein computes edit distance over runes with the classic
// two-row dynamic program.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
