package reader

import (
	"strings"
	"unicode"
)

// CleanTitle flattens a headline to a single line: runs of whitespace,
// including line breaks, become one space and control characters are dropped.
func CleanTitle(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return strings.Join(strings.Fields(stripped), " ")
}

// ClipTitle limits a title to maxChars runes, preferring to cut at a word
// boundary, and appends an ellipsis when clipped. maxChars <= 0 disables it.
func ClipTitle(title string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		return title, false
	}
	runes := []rune(title)
	if len(runes) <= maxChars {
		return title, false
	}
	if maxChars == 1 {
		return "…", true
	}

	cut := runes[:maxChars-1]
	if space := lastSpace(cut); space >= len(cut)/2 {
		cut = cut[:space]
	}
	clipped := strings.TrimSpace(string(cut))
	if clipped == "" {
		return "…", true
	}
	return clipped + "…", true
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
