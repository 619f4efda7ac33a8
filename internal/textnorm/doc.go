// Package textnorm turns raw, human-entered strings into canonical comparison
// keys for entity matching.
//
// The primary operations are:
//   - Slugify: lowercase, diacritic-free, hyphenated identifiers derived from
//     display names (the canonical participant key)
//   - CompactKey: a looser letters-and-digits-only key used as a fallback
//     match tier when slugs disagree on separators
//   - StripHandleMarker: removal of leading @-style handle prefixes
//   - NormalizeNewlines: CRLF/CR to LF collapse for free-text fields
//
// All functions are total and pure: any input string yields a deterministic
// output string, possibly empty. Diacritics are stripped by Unicode
// decomposition followed by removal of combining marks.
package textnorm
