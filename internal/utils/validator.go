package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword validates a password: minimum 8 characters, no spaces.
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 128 {
		return false
	}
	return !strings.Contains(password, " ")
}

// SanitizeEmail normalizes an email address for storage and lookups.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
