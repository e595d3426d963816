// Package memory provides a mutex-guarded in-memory implementation of the
// storage interfaces. It backs the test suite and local development without
// AWS access, and honors the same version-conflict semantics as the DynamoDB
// store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/chris/bank-ledger/pkg/models"
	"github.com/chris/bank-ledger/pkg/storage"
)

// Store holds all state behind a single mutex. Every method works on copies,
// so callers never observe a record mid-mutation.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	entries  []models.LedgerEntry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{accounts: make(map[string]*models.Account)}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// GetAccount retrieves a copy of the account for the given username.
func (s *Store) GetAccount(ctx context.Context, username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return nil, fmt.Errorf("account for username %s: %w", username, storage.ErrAccountNotFound)
	}
	cp := *account
	return &cp, nil
}

// CreateAccount stores a new account, failing if the username is taken.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.Username]; ok {
		return fmt.Errorf("account for username %s: %w", account.Username, storage.ErrAccountExists)
	}
	cp := *account
	s.accounts[account.Username] = &cp
	return nil
}

// UpdateBalances sets both balance fields, conditional on the expected
// version, and bumps the version on success.
func (s *Store) UpdateBalances(ctx context.Context, username string, cash, debt, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return fmt.Errorf("account for username %s: %w", username, storage.ErrAccountNotFound)
	}
	if account.Version != expectedVersion {
		return fmt.Errorf("account %s: %w", username, storage.ErrVersionConflict)
	}
	account.Cash = cash
	account.Debt = debt
	account.Version++
	return nil
}

// CreditCash atomically adds delta to the account's cash balance.
func (s *Store) CreditCash(ctx context.Context, username string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return fmt.Errorf("account for username %s: %w", username, storage.ErrAccountNotFound)
	}
	account.Cash += delta
	account.Version++
	return nil
}

// AppendLedgerEntries appends audit entries.
func (s *Store) AppendLedgerEntries(ctx context.Context, entries []models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entries...)
	return nil
}

// ListLedgerEntries returns up to limit entries, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int(limit)
	if n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]models.LedgerEntry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}
