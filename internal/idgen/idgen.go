// Package idgen mints the identities the store assigns to tasks on insert.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultPrefix marks an ID as a taskreminder task.
var DefaultPrefix = "tr-"

// Alphabet is the set of characters task IDs are drawn from.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is how many random characters follow the prefix.
var Length = 10

// Generate returns a fresh task ID such as "tr-V1StGXR8Z5".
func Generate() (string, error) {
	return GenerateWithPrefix(DefaultPrefix)
}

// GenerateWithPrefix is Generate with a caller-chosen prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
