package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/bank-ledger/pkg/auth"
	"github.com/chris/bank-ledger/pkg/models"
	"github.com/chris/bank-ledger/pkg/storage"
)

// Register creates a new account with zero cash and zero debt. The existence
// probe runs first so the observable failure order matches the protocol; the
// conditional create below it closes the race against a concurrent register
// of the same username.
func (s *Service) Register(ctx context.Context, username, password string) error {
	exists, err := s.Verifier.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hash,
		Cash:         0,
		Debt:         0,
		Version:      1,
		CreatedAt:    time.Now(),
	}
	if err := s.Store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}
