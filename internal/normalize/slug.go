package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var transliterations = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
	"é", "e",
	"è", "e",
	"ê", "e",
)

// Slug derives the URL and filename safe identifier for a product name
func Slug(name string) string {
	s := transliterations.Replace(strings.ToLower(name))
	s = foldDiacritics(s)
	s = strings.ReplaceAll(s, " ", "-")

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-':
			if !lastHyphen {
				b.WriteRune(r)
			}
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ImageID turns a slug into the base image identifier
func ImageID(slug string) string {
	return strings.ReplaceAll(slug, "-", "_")
}

// foldDiacritics strips combining marks left after the fixed table, so "à" becomes "a"
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
