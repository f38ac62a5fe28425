package utils

import (
	"strings"
	"unicode/utf8"
)

// MaxSearchLength is the longest accepted search term, in runes.
const MaxSearchLength = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeSQLWildcards makes user input match literally in a LIKE pattern declared
// with ESCAPE '\'.
func EscapeSQLWildcards(input string) string {
	return likeEscaper.Replace(input)
}

// SanitizeSearchQuery turns a search box value into a substring LIKE pattern. Callers
// reject terms longer than MaxSearchLength; a cut term would match more than asked for.
func SanitizeSearchQuery(input string) string {
	return "%" + EscapeSQLWildcards(strings.TrimSpace(input)) + "%"
}

// SearchQueryTooLong reports whether the trimmed term exceeds MaxSearchLength.
func SearchQueryTooLong(input string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(input)) > MaxSearchLength
}

// TruncateString keeps at most maxLen runes of s.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
