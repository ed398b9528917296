package action

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/set-night/eduassist/internal/config"
)

// extractRating reads the rating entity, falling back to a standalone number in the text.
// The value is not range checked.
func extractRating(turn TurnContext) (int, bool) {
	if v, ok := turn.LatestEntityValue(config.EntityRating); ok {
		if r, ok := parseRating(v); ok {
			return r, true
		}
	}
	for _, tok := range strings.Fields(turn.Text) {
		if r, ok := parseRating(tok); ok {
			return r, true
		}
	}
	return 0, false
}

// parseRating trims enclosing punctuation ("5.", "¿3?") but keeps a sign, so "-3"
// parses as -3 and fails the range check downstream.
func parseRating(s string) (int, bool) {
	s = strings.TrimFunc(s, func(r rune) bool {
		if r == '-' || r == '+' {
			return false
		}
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
	if s == "" {
		return 0, false
	}
	r, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return r, true
}
