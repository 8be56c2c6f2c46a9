package game

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases text and collapses every run of characters outside
// [a-z0-9] into a single space, trimming the ends. Normalize is idempotent.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Matches reports whether guess names the title. Any guess that contains the
// normalized title wins, so extra words around it are tolerated.
func Matches(guess, title string) bool {
	return strings.Contains(Normalize(guess), Normalize(title))
}
