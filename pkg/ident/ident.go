// Package ident validates and derives conversation-store identifiers.
//
// The event store only accepts ids matching [a-zA-Z0-9][a-zA-Z0-9-_/]*,
// so free-form identities (emails, display names) must be hashed into a
// conforming fixed hex string before use.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var pattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_/]*$`)

// Valid reports whether id conforms to the store's identifier pattern.
func Valid(id string) bool {
	return pattern.MatchString(id)
}

// Hash maps an arbitrary string to a store-safe hex identifier.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
