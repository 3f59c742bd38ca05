// ABOUTME: Password hashing and verification using bcrypt
// ABOUTME: Salted one-way digests; malformed digests are treated as non-matches

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor. bcrypt.DefaultCost is 10.
const hashCost = bcrypt.DefaultCost

// dummyHash is a bcrypt digest of a throwaway value. Login compares against
// it when no account exists so that the response time does not reveal
// whether an email is registered.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword produces a randomly salted bcrypt digest of the plaintext.
// Two calls with the same plaintext yield different digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the digest.
// A malformed digest is a non-match, never an error.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
