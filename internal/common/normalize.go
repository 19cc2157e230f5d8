// Package common provides shared utilities across the application.
package common

import (
	"strings"
	"unicode"
)

// Corporate suffixes stripped from company names for matching. The listing
// files carry these inconsistently ("Apple Inc." vs "Apple Inc").
var nameSuffixes = []string{
	"incorporated", "corporation", "company", "holdings", "limited",
	"inc", "corp", "ltd", "plc", "llc", "lp", "co",
}

// NormalizeSymbol canonicalizes a ticker symbol for lookup: trimmed and
// uppercased. Index symbols keep their leading caret (e.g. "^GSPC").
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeName canonicalizes a company name for matching: case-folded,
// punctuation stripped, whitespace collapsed, trailing corporate suffixes
// removed. The catalog and the resolver must use the same normalization so
// exact name matches are exact.
//
// Examples:
//   - "Apple Inc." -> "apple"
//   - "Amazon.com, Inc." -> "amazoncom"
//   - "American Airlines Group, Inc." -> "american airlines group"
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation is dropped entirely.
	}

	fields := strings.Fields(b.String())

	// Strip trailing corporate suffixes, possibly more than one
	// ("Group, Inc." leaves "group" in place, "Co Ltd" strips both).
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		stripped := false
		for _, suffix := range nameSuffixes {
			if last == suffix {
				fields = fields[:len(fields)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	return strings.Join(fields, " ")
}
