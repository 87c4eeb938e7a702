// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// ParseUint converts a decimal string (typically a path parameter) into a
// uint identifier. It rejects empty strings, signs, and anything non-numeric.
//
// Example:
//
//	id, err := utils.ParseUint("42") // 42, nil
//	_, err = utils.ParseUint("-1")   // error
func ParseUint(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// AtoiDefault converts a string to an int, returning def when the string is
// empty or unparseable.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
