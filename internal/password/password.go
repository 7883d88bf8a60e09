// Package password hashes and verifies user passwords.
//
// Passwords are pre-hashed with SHA-256 (hex encoded) before bcrypt so that
// inputs longer than bcrypt's 72-byte limit are accepted without truncation.
// The hex digest is always 64 bytes, so every password reaches bcrypt intact.
// Verify replays the identical pipeline; changing it invalidates every
// stored hash.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a candidate password does not match the
// stored hash.
var ErrMismatch = errors.New("password does not match")

// Hasher turns plaintext passwords into bcrypt hashes and verifies
// candidates against them. The cost is fixed per deployment.
type Hasher struct {
	cost int
}

// New creates a Hasher with the given bcrypt cost. Costs outside bcrypt's
// supported range fall back to the default cost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of the pre-hashed password, suitable for
// storage as text. The bcrypt artifact encodes its own salt and cost.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(preHash(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare checks a candidate password against a stored hash. It returns
// ErrMismatch when the password is wrong and never distinguishes a malformed
// hash from a mismatch beyond the error value. The underlying comparison is
// constant time.
func (h *Hasher) Compare(password, stored string) error {
	err := bcrypt.CompareHashAndPassword([]byte(stored), preHash(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

// preHash normalizes arbitrary-length input to a fixed 64-byte hex digest.
func preHash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}
