package password_test

import (
	"errors"
	"strings"
	"testing"

	"tourdesk/shared/password"

	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		expectedError error
	}{
		{name: "operator password", password: "Bromo-Sunrise-2026"},
		{name: "unicode password", password: "gunung-rinjani-ꦫꦶꦚ꧀ꦗꦤꦶ"},
		{name: "exactly the byte limit", password: strings.Repeat("a", password.MaxLength)},
		{name: "empty", password: "", expectedError: password.ErrEmptyPassword},
		{name: "over the byte limit", password: strings.Repeat("a", password.MaxLength+1), expectedError: password.ErrHashingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}

				if hash != "" {
					t.Errorf("expected no hash on failure, got %q", hash)
				}

				return
			}

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if hash == tt.password {
				t.Error("expected the hash to differ from the password")
			}

			if err = password.Verify(tt.password, hash); err != nil {
				t.Errorf("expected the fresh hash to verify, got %v", err)
			}
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("Bromo-Sunrise-2026")
	if err != nil {
		t.Fatal(err)
	}

	second, err := password.Hash("Bromo-Sunrise-2026")
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("Bromo-Sunrise-2026")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		password      string
		hash          string
		expectedError error
	}{
		{name: "match", password: "Bromo-Sunrise-2026", hash: hash},
		{name: "wrong password", password: "bromo-sunrise-2026", hash: hash, expectedError: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, expectedError: password.ErrInvalidPassword},
		{name: "operator without a hash", password: "Bromo-Sunrise-2026", hash: "", expectedError: password.ErrInvalidPassword},
		{name: "corrupted hash", password: "Bromo-Sunrise-2026", hash: "$2a$10$not-a-real-hash", expectedError: password.ErrVerifyingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.expectedError == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}

			if tt.expectedError != nil && !errors.Is(err, tt.expectedError) {
				t.Errorf("expected %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := password.Hash("Bromo-Sunrise-2026")
	if err != nil {
		t.Fatal(err)
	}

	legacy, err := bcrypt.GenerateFromPassword([]byte("Bromo-Sunrise-2026"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		hash string
		want bool
	}{
		{name: "current cost", hash: current, want: false},
		{name: "seeded with a cheaper cost", hash: string(legacy), want: true},
		{name: "unreadable hash", hash: "plaintext", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := password.NeedsRehash(tt.hash); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
