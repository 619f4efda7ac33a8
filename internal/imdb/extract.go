// Package imdb extracts canonical IMDb title identifiers from free text.
//
// Source rows carry hand-typed links and bare IDs, and a material fraction of
// them drop the first character of the "tt" prefix during transcription. The
// extractor therefore runs a layered match: a well-formed ID anywhere in the
// text wins, then a single-prefix-character form is recovered and the
// canonical prefix restored. Anything else is reported as not found so the
// caller can record a data-quality error instead of dropping the row.
package imdb

import "regexp"

var (
	wellFormedPattern    = regexp.MustCompile(`tt\d{7,8}`)
	droppedPrefixPattern = regexp.MustCompile(`\bt(\d{7,8})\b`)
)

// ExtractID pulls an IMDb title ID out of free text. The second return value
// reports whether an ID was found.
func ExtractID(text string) (string, bool) {
	if match := wellFormedPattern.FindString(text); match != "" {
		return match, true
	}
	if match := droppedPrefixPattern.FindStringSubmatch(text); match != nil {
		return "tt" + match[1], true
	}
	return "", false
}
