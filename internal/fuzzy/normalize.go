// Package fuzzy scores and clusters short headlines by near-duplicate content.
//
// Every function in this package is pure: no logging, no I/O and no shared
// mutable state, so callers may invoke it concurrently on independent input.
package fuzzy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeText lowercases text and collapses every whitespace run into a
// single ASCII space, trimming leading and trailing whitespace.
func NormalizeText(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	joined := strings.Join(fields, " ")
	if isLowerASCII(joined) {
		return joined
	}
	// Casers carry state and must not be shared between goroutines.
	return cases.Lower(language.Und).String(joined)
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || ('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
