// Package cardid derives stable card identifiers from card content.
//
// A card's identity is a hash of its normalized front and back text, so the
// same card re-synced from a source file keeps its scheduling record, while
// any edit to either side produces a new card that starts fresh.
package cardid

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize cleans one side of a card for hashing: lowercased, trimmed,
// line endings unified.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Hash returns the hex SHA-256 of the normalized front and back. The sides
// are joined with a newline so content cannot collide across the boundary.
func Hash(front, back string) string {
	joined := Normalize(front) + "\n" + Normalize(back)
	sum := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("%x", sum)
}
