// Package id generates collision-resistant identifiers for messenger names,
// dispatch attempts and sandbox records.
package id

import "github.com/google/uuid"

// New returns a time-ordered UUID (version 7) in canonical 36-character form.
// Falls back to a random version 4 UUID if the v7 generator fails.
func New() string {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v.String()
}

// Valid reports whether s is a canonical UUID string.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
