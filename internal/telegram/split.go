package telegram

import (
	"slices"
	"unicode/utf8"
)

var breakSeparators = [][]rune{{'\n', '\n'}, {'\n'}, {' '}}

// SplitMessage cuts text into chunks of at most maxLen runes, preferring to break
// after a blank line, then after a newline, then after a space.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	runes := []rune(text)
	var parts []string
	for len(runes) > maxLen {
		cut := breakPoint(runes[:maxLen])
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// breakPoint only considers separators in the second half of the window so chunks
// never get too short.
func breakPoint(window []rune) int {
	half := len(window) / 2
	for _, sep := range breakSeparators {
		for i := len(window) - len(sep); i >= half; i-- {
			if slices.Equal(window[i:i+len(sep)], sep) {
				return i + len(sep)
			}
		}
	}
	return len(window)
}
