// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// MaxPasswordBytes is the longest secret bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher defines the interface for password hashing and verification.
// Implementations must be safe for concurrent use.
type PasswordHasher interface {
	// Hash generates a salted, deliberately slow one-way hash of a plaintext password.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. The comparison runs in constant time
	// and a malformed hash is a mismatch.
	Check(password, hash string) bool
}
