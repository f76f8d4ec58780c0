// Package names normalizes player names so rows from differently formatted
// sources ("First Last", "Last, First", accented spellings) compare equal.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripped holds the punctuation removed from every key.
const stripped = "*,.-'"

// Normalize returns the comparison key for a raw name: diacritics removed,
// punctuation and whitespace dropped, lower-cased.
//
// Case folding happens before decomposition so that letters whose lower
// case form carries a combining mark (e.g. "İ") lose it on the first pass.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToLower(raw)

	// transform.Chain keeps state, so build a fresh one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, s)
	if err != nil {
		decomposed = s
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsSpace(r) || strings.ContainsRune(stripped, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeAny normalizes v when it is a string and returns "" otherwise.
func NormalizeAny(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Normalize(s)
}

// Variants returns the accepted keys for raw. Two-token names also match
// their reversed and "Last, First" orderings.
func Variants(raw string) map[string]struct{} {
	name := strings.TrimSpace(raw)
	parts := strings.Fields(strings.ReplaceAll(name, ",", ""))

	forms := make([]string, 0, 4)
	if len(parts) == 2 {
		first, last := parts[0], parts[1]
		forms = append(forms,
			first+" "+last,
			last+" "+first,
			last+", "+first,
		)
	}
	forms = append(forms, name)

	set := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		set[Normalize(f)] = struct{}{}
	}
	return set
}

// Matches reports whether candidateKey is one of the variants of raw.
func Matches(candidateKey, raw string) bool {
	_, ok := Variants(raw)[candidateKey]
	return ok
}

// Intersects reports whether two raw names share at least one variant.
func Intersects(a, b string) bool {
	vb := Variants(b)
	for k := range Variants(a) {
		if _, ok := vb[k]; ok {
			return true
		}
	}
	return false
}
