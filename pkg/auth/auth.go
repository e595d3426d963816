// Package auth verifies usernames and passwords against the account store.
// Passwords are stored only as bcrypt hashes; comparison is salted and
// constant-time.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/bank-ledger/pkg/models"
	"github.com/chris/bank-ledger/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

// ErrNoSuchUser is returned when no account exists for the username.
var ErrNoSuchUser = errors.New("user does not exist")

// ErrWrongPassword is returned when the password does not match the stored
// hash.
var ErrWrongPassword = errors.New("wrong password")

// Verifier checks account existence and credentials. It is read-only.
type Verifier struct {
	Store storage.AccountStore
}

// NewVerifier creates a Verifier backed by the given account store.
func NewVerifier(store storage.AccountStore) *Verifier {
	return &Verifier{Store: store}
}

// Exists reports whether an account exists for the username, without any
// password check. It gates registration and validates transfer recipients.
func (v *Verifier) Exists(ctx context.Context, username string) (bool, error) {
	_, err := v.Store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return true, nil
}

// Verify checks the username and password and returns the account snapshot
// read during verification. The snapshot carries the version used for
// conditional updates.
func (v *Verifier) Verify(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := v.Store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, ErrNoSuchUser
		}
		return nil, fmt.Errorf("failed to load account for verification: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	return account, nil
}

// HashPassword hashes a password with a fresh random salt.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
