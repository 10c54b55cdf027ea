// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying key derivation function, keeping the domain pure.
type PasswordHasher interface {
	// Hash derives a stored hash of the form "salt.derivedKeyHex" from a
	// plaintext password with a fresh random salt.
	Hash(password string) (string, error)

	// Compare re-derives a key from the plaintext and the stored hash's salt
	// and checks equality in constant time. A malformed stored hash yields
	// (false, err); the error is a log signal, never a match.
	Compare(password, storedHash string) (bool, error)
}
