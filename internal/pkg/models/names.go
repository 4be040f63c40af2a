package models

import (
	"strings"
)

// NormalizeName folds a team or player name for comparisons: lower case, trimmed, single spaces.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// SameName compares two names case-insensitively, ignoring surrounding and repeated whitespace.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
