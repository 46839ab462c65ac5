// Package ident validates the small set of identifier shapes the flow data
// model accepts: node names, environment variable names, and environment
// variable values. It deliberately stays a flat byte scan rather than a
// generic charset-template the way the original C++ reserved_chars_checker
// did it; Go has no use for that machinery here.
package ident

import "strings"

// ValidNodeName reports whether s is a non-empty token of letters, digits,
// '_', '-', or '+'.
func ValidNodeName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '+':
		default:
			return false
		}
	}
	return true
}

// ValidEnvName reports whether s is a non-empty byte sequence excluding
// NUL and '='.
func ValidEnvName(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsRune(s, 0) && !strings.ContainsRune(s, '=')
}

// ValidEnvValue reports whether s excludes NUL. Empty values are allowed.
func ValidEnvValue(s string) bool {
	return !strings.ContainsRune(s, 0)
}
