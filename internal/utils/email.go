package utils

import (
	"net/mail"
	"strings"
)

// NormalizeEmail trims and lowercases an address for storage and lookups.
func NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// IsValidEmail accepts a bare address with a dotted domain. Display-name
// forms like "Ana <ana@example.com>" are rejected.
func IsValidEmail(input string) bool {
	input = strings.TrimSpace(input)
	addr, err := mail.ParseAddress(input)
	if err != nil || addr.Address != input {
		return false
	}
	at := strings.LastIndex(input, "@")
	return strings.Contains(input[at+1:], ".")
}
