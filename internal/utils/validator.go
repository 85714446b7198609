package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether email looks like an email address. The real
// uniqueness/deliverability guard lives in the database and mail flows; this
// only rejects obvious garbage early.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword enforces the signup password policy: minimum 8 characters
// with at least one letter and one digit.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case 'A' <= char && char <= 'Z', 'a' <= char && char <= 'z':
			hasLetter = true
		case '0' <= char && char <= '9':
			hasNumber = true
		}
	}

	return hasLetter && hasNumber
}

// NormalizeEmail trims surrounding whitespace and lower-cases an email so
// that addresses differing only in case or padding map to one identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
