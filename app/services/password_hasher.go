// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
)

// PasswordHasher hashes and verifies credentials. Implementations must use a
// memory-hard algorithm; a fast digest is not acceptable for stored passwords.
type PasswordHasher interface {
	// NewSalt returns a fresh random salt, never reused between credentials
	NewSalt() string

	// Hash derives a hash from the password and salt
	Hash(password, salt string) (string, error)

	// Verify checks a candidate password against the stored hash and salt.
	// The comparison is constant-time, delegated to the hashing primitive.
	Verify(hash, password, salt string) (bool, error)
}

// Argon2idHasher implements PasswordHasher with argon2id
type Argon2idHasher struct {
	params *argon2id.Params
}

// NewArgon2idHasher creates a hasher with the library default parameters
func NewArgon2idHasher() PasswordHasher {
	return &Argon2idHasher{params: argon2id.DefaultParams}
}

// NewSalt returns a fresh random salt. The salt is stored next to the hash and
// appended to the password before hashing, on top of the salt argon2id embeds
// in the encoded hash itself.
func (h *Argon2idHasher) NewSalt() string {
	return uuid.New().String()
}

// Hash derives an argon2id hash from the salted password
func (h *Argon2idHasher) Hash(password, salt string) (string, error) {
	return argon2id.CreateHash(password+salt, h.params)
}

// Verify checks the candidate password against the stored hash
func (h *Argon2idHasher) Verify(hash, password, salt string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password+salt, hash)
}
