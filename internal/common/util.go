package common

import "strings"

// WipeByteArray overwrites the contents of b with zeros. Used for passwords
// read from the terminal. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// All email lookups and inserts go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
