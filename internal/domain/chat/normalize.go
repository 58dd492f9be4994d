package chat

import (
	"strings"
	"unicode"
)

func normalizeMessage(msg string) string {
	lowered := strings.ToLower(strings.TrimSpace(msg))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// whitespace and punctuation both collapse to one space
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}
