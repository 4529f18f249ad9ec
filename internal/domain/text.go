package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText canonicalizes free text: NFKC normalization, invalid UTF-8
// stripped, whitespace collapsed to single spaces. Queries and highlight
// texts go through this exactly once.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToValidUTF8(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes bounds s to at most n runes. Classifier inputs are capped
// this way because classification models do not accept unbounded input.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
