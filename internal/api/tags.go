package api

import (
	"strings"
	"unicode"
)

// SplitTags turns the comma-separated form value into tags. All whitespace is
// removed first; empty segments between commas are kept.
func SplitTags(s string) []string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
