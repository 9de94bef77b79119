package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minFullNameLength = 3
	maxFullNameLength = 50
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// normalizeEmail is the lookup and uniqueness key of an account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkFullName returns the trimmed name, or a message describing why it is rejected.
func checkFullName(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n < minFullNameLength:
		return trimmed, "Full name must be at least 3 characters"
	case n > maxFullNameLength:
		return trimmed, "Full name cannot exceed 50 characters"
	}
	return trimmed, ""
}

// checkEmail expects an already normalized address.
func checkEmail(email string) string {
	if !emailPattern.MatchString(email) {
		return "Please provide a valid email address"
	}
	return ""
}
