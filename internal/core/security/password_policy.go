package security

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	// PasswordSymbols is the set a password must draw at least one character from.
	PasswordSymbols = `!@#$%^&*(),.?":{}|<>`
)

// Violation messages, in the order they are reported.
const (
	ViolationLength    = "Password must be at least 8 characters"
	ViolationUppercase = "Must contain at least one uppercase letter"
	ViolationLowercase = "Must contain at least one lowercase letter"
	ViolationDigit     = "Must contain at least one number"
	ViolationSymbol    = "Must contain at least one special character"
)

// PolicyResult lists every rule a password breaks.
type PolicyResult struct {
	OK         bool
	Violations []string
}

// ValidatePassword checks every rule without short-circuiting.
func ValidatePassword(plaintext string) PolicyResult {
	var upper, lower, digit, symbol bool
	for _, r := range plaintext {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case r < unicode.MaxASCII && strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	var violations []string
	if utf8.RuneCountInString(plaintext) < MinPasswordLength {
		violations = append(violations, ViolationLength)
	}
	if !upper {
		violations = append(violations, ViolationUppercase)
	}
	if !lower {
		violations = append(violations, ViolationLowercase)
	}
	if !digit {
		violations = append(violations, ViolationDigit)
	}
	if !symbol {
		violations = append(violations, ViolationSymbol)
	}
	return PolicyResult{OK: len(violations) == 0, Violations: violations}
}
