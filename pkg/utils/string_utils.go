package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if string is empty.
// Useful for optional fields the backend expects to be absent rather than "".
func NewNullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
