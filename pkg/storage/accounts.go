package storage

import (
	"context"

	"github.com/chris/bank-ledger/pkg/models"
)

// AccountStore defines the interface for managing accounts. Each account is a
// single record keyed by username; every mutation is atomic at the record
// level.
type AccountStore interface {
	// GetAccount retrieves an account by username.
	GetAccount(ctx context.Context, username string) (*models.Account, error)

	// CreateAccount persists a new account. It fails with ErrAccountExists
	// if the username is already taken.
	CreateAccount(ctx context.Context, account *models.Account) error

	// UpdateBalances sets both balance fields of one account record,
	// conditional on the version observed when the operation validated.
	// It fails with ErrVersionConflict if the record has changed since
	// that read.
	UpdateBalances(ctx context.Context, username string, cash, debt, expectedVersion int64) error

	// CreditCash atomically adds delta to an account's cash balance without
	// a prior read. Used for transfer recipients and bank fee credits, which
	// have no balance precondition.
	CreditCash(ctx context.Context, username string, delta int64) error
}
