// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "membership/internal/errors"

// ErrPasswordTooLong is returned by Hash when the algorithm cannot take the whole password.
var ErrPasswordTooLong = errors.New("password too long to hash")

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	// Passwords beyond the algorithm's input limit yield ErrPasswordTooLong.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// A hash that cannot be parsed never matches.
	Check(password, hash string) bool
}
