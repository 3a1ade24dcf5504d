// Package password hashes and verifies operator credentials with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = bcrypt.DefaultCost

	// MaxLength is the longest input bcrypt accepts, in bytes.
	MaxLength = 72
)

var (
	ErrInvalidPassword   = errors.New("invalid password")
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrHashingPassword   = errors.New("error hashing password")
	ErrVerifyingPassword = errors.New("error verifying password")
)

// Hash generates a bcrypt hash of the password. Inputs over MaxLength bytes
// are rejected rather than silently truncated.
func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	return string(bytes), nil
}

// NeedsRehash reports whether hash was produced with a cost other than DefaultCost.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}

	return cost != DefaultCost
}

// Verify checks if the provided password matches the hash. A mismatch is
// ErrInvalidPassword; a malformed hash is ErrVerifyingPassword.
func Verify(password, hash string) error {
	if password == "" || hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}

		return fmt.Errorf("%w: %w", ErrVerifyingPassword, err)
	}

	return nil
}
