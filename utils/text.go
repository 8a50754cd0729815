package utils

import (
	"html"
	"strings"
	"unicode"
)

// CollapseSpaces trims s and replaces every run of whitespace with one space
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanText collapses whitespace and unescapes leftover HTML entities
func CleanText(s string) string {
	return CollapseSpaces(html.UnescapeString(s))
}

// DigitsOnly drops every character that is not a decimal digit
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Snippet shortens s for diagnostics
func Snippet(s string, max int) string {
	s = CollapseSpaces(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace) + "..."
}
