package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CleanText strips invalid UTF8 and NUL bytes, trims the ends and collapses
// inner whitespace runs to a single space.
func CleanText(input string) string {
	if strings.Contains(input, "\x00") || !utf8.ValidString(input) {
		input = strings.ToValidUTF8(input, "")
		input = strings.ReplaceAll(input, "\x00", "")
	}
	return strings.Join(strings.Fields(input), " ")
}

// OnlyDigits drops every non-digit rune, so "123.456.789-09" becomes "12345678909".
func OnlyDigits(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r < utf8.RuneSelf && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(input string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(input)
}
