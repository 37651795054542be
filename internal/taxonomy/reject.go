package taxonomy

import (
	"strings"
	"unicode"
)

// Rejection reasons
const (
	ReasonNameTooShort = "name too short"
	ReasonNoiseKeyword = "navigation or noise keyword"
	ReasonNoWord       = "no alphabetic word"
	ReasonSlugTooShort = "slug too short"
)

const minLength = 3

// Reject reports why a product name/slug pair cannot enter the catalog.
// An empty reason means the pair is acceptable.
func (c *Classifier) Reject(name, slug string) string {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < minLength {
		return ReasonNameTooShort
	}
	if containsAny(strings.ToLower(name), c.taxonomy.ExcludedKeywords) {
		return ReasonNoiseKeyword
	}
	if !hasASCIILetterRun(name, minLength) {
		return ReasonNoWord
	}
	if len(slug) < minLength {
		return ReasonSlugTooShort
	}
	return ""
}

// Valid is Reject reduced to a yes/no answer
func (c *Classifier) Valid(name, slug string) bool {
	return c.Reject(name, slug) == ""
}

// hasASCIILetterRun reports whether s has n consecutive ASCII letters.
// Accented letters break a run: "Été" has none.
func hasASCIILetterRun(s string, n int) bool {
	run := 0
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			run++
			if run >= n {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}
