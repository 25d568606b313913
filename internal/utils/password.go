package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is tuned for roughly 100-250ms per verify on server hardware.
const DefaultBcryptCost = 12

// MaxSecretBytes is the longest input bcrypt accepts.
const MaxSecretBytes = 72

// ErrSecretTooLong is returned by Hash for inputs over MaxSecretBytes.
var ErrSecretTooLong = errors.New("secret exceeds 72 bytes")

// PasswordHasher hashes and verifies passwords and one-time codes with bcrypt.
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher creates a hasher; costs outside bcrypt's range fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	// Only fails for over-long input, which this is not.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("member-directory-placeholder"), cost)
	return &PasswordHasher{cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt hash of secret.
func (h *PasswordHasher) Hash(secret string) (string, error) {
	if len(secret) > MaxSecretBytes {
		return "", ErrSecretTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether secret matches hash. Malformed hashes never match.
func (h *PasswordHasher) Compare(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// CompareDummy does the same work as Compare against a fixed hash and always
// reports false. Use it when there is no stored hash to check against.
func (h *PasswordHasher) CompareDummy(secret string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(secret))
	return false
}
