// Package service provides technical services for authentication: password hashing
// and opaque token generation.
package service

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	// Hash returns an encoded Argon2id hash of password.
	Hash(password string) (string, error)

	// Compare reports whether password matches hash. Malformed hashes never match.
	Compare(password, hash string) bool

	// GenerateTemporary returns a random password satisfying the password policy,
	// together with its hash.
	GenerateTemporary() (plain string, hash string, err error)
}

// TokenService defines operations for opaque token generation and hashing.
// Session and password reset tokens are only stored as hashes.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (handed to the user once) and
	// the hashed version (stored in the database).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token using SHA-256.
	HashToken(plainToken string) string
}
