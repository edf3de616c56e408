package task

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize canonicalizes a free-text input so that inputs differing only in
// case or surrounding whitespace compare equal.
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Key derives the stable content key for an input: the hex SHA-256 of the
// normalized text. Both the response cache and the failure history key on
// this, so the two components always agree on input identity, and keys are
// stable across processes (unlike a runtime-seeded map hash).
func Key(input string) string {
	sum := sha256.Sum256([]byte(Normalize(input)))
	return hex.EncodeToString(sum[:])
}
