package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegexp = regexp.MustCompile(`\s+`)
	nonWordRegexp    = regexp.MustCompile(`[^a-z0-9_-]+`)
	hyphenRunRegexp  = regexp.MustCompile(`-{2,}`)
)

// Generate derives a URL-safe slug from a review title.
//
// The title is lowercased, accents are folded (NFD with combining marks
// removed), whitespace runs become hyphens and every other non-word
// character is dropped.
//
// Examples:
//   - "5 Receitas Saudáveis!" → "5-receitas-saudaveis"
//   - "Fogão 4 Bocas Itatiaia" → "fogao-4-bocas-itatiaia"
//   - "Air Fryer  (5,5L)" → "air-fryer-55l"
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = fold(s)
	s = whitespaceRegexp.ReplaceAllString(s, "-")
	s = nonWordRegexp.ReplaceAllString(s, "")
	s = hyphenRunRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
