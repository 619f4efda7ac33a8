package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes text and drops combining marks, so "Peña" folds to "Pena".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeNewlines collapses CRLF and bare CR line endings to LF.
func NormalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// StripHandleMarker removes leading handle-prefix characters (@) along with
// any surrounding whitespace. "@@juan " and "juan" produce the same result.
func StripHandleMarker(text string) string {
	text = strings.TrimSpace(text)
	for strings.HasPrefix(text, "@") {
		text = strings.TrimSpace(strings.TrimPrefix(text, "@"))
	}
	return text
}

// Slugify derives a canonical identifier from a display name: lowercase,
// diacritics stripped, every non-alphanumeric run collapsed to a single
// hyphen, leading and trailing hyphens trimmed.
func Slugify(name string) string {
	return slugify(name, 0)
}

// SlugifyMax behaves like Slugify but caps the result at max bytes. The cap
// is applied before trailing-hyphen trimming so a truncation never ends in a
// separator. A max of zero or less means uncapped.
func SlugifyMax(name string, max int) string {
	return slugify(name, max)
}

func slugify(name string, max int) string {
	folded := fold(name)
	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	slug := b.String()
	if max > 0 && len(slug) > max {
		slug = slug[:max]
	}
	return strings.Trim(slug, "-")
}

// CompactKey derives the loose fallback key: lowercase, diacritics stripped,
// all non-alphanumeric characters removed with no separators at all.
func CompactKey(name string) string {
	folded := fold(name)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func fold(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	stripped, _, err := transform.String(deaccent, lowered)
	if err != nil {
		// Transform failures only occur on malformed UTF-8; fall back to the
		// lowered input so the function stays total.
		return lowered
	}
	return stripped
}
