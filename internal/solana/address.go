// Package solana holds small helpers for Solana account identifiers.
package solana

import "regexp"

// Solana addresses are base58-encoded public keys, 32-44 characters from
// the restricted alphabet (no 0, I, O or l).
var addressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// ValidAddress reports whether s is syntactically a Solana address.
// This is a pure syntax predicate, not an on-chain existence check.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}
