package validator

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

var commonPasswords = map[string]bool{
	"password":    true,
	"password1":   true,
	"password123": true,
	"123456":      true,
	"12345678":    true,
	"123456789":   true,
	"qwerty":      true,
	"qwerty123":   true,
	"letmein":     true,
	"welcome":     true,
	"admin":       true,
	"admin123":    true,
	"iloveyou":    true,
}

func init() {
	register("strong_password", static(IsStrongPassword))
}

// IsStrongPassword requires upper, lower, digit and special characters, a
// minimum length, and rejects a short list of well-known passwords.
func IsStrongPassword(v string) bool {
	if len([]rune(v)) < minPasswordLength || commonPasswords[strings.ToLower(v)] {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range v {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
