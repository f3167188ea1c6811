package usermgmt

import (
	"strings"
	"unicode"
)

// IsInteger reports whether s would be read as an integer by the numbered
// selection prompts: optional surrounding whitespace, an optional sign and
// decimal digits, with single underscores allowed between digits.
func IsInteger(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" || s[0] == '_' || s[len(s)-1] == '_' {
		return false
	}
	prevUnderscore := false
	for _, r := range s {
		switch {
		case r == '_':
			if prevUnderscore {
				return false
			}
			prevUnderscore = true
		case unicode.IsDigit(r):
			prevUnderscore = false
		default:
			return false
		}
	}
	return true
}

// validateName checks a new username or usergroup name.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if IsInteger(name) {
		return ErrReservedName
	}
	return nil
}
