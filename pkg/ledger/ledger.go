// Package ledger implements the account-mutation protocol: credential
// verification, amount and balance validation, fee routing, and the ordering
// of reads and writes that preserves conservation of total cash net of fees.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/bank-ledger/pkg/auth"
	"github.com/chris/bank-ledger/pkg/models"
	"github.com/chris/bank-ledger/pkg/storage"
	"github.com/google/uuid"
)

const (
	// Fee is the fixed charge applied to the initiating account on every
	// cash-affecting operation, credited to the bank account.
	Fee int64 = 1

	// BankAccount is the distinguished account that accumulates all fees.
	// It is provisioned at startup and exempt from password checks when
	// fees are credited to it.
	BankAccount = "BANK"

	// maxRetries bounds re-reads after a lost optimistic-locking race.
	maxRetries = 3
)

// Service implements the ledger operations on top of the account store.
// It holds no state across requests.
type Service struct {
	Store    storage.Storage
	Verifier *auth.Verifier
	Logger   *slog.Logger
}

// New creates a Service.
func New(store storage.Storage, verifier *auth.Verifier, logger *slog.Logger) *Service {
	return &Service{Store: store, Verifier: verifier, Logger: logger}
}

// mutate runs one read-validate-write attempt until the conditional update
// commits or the retry budget is exhausted. The attempt re-reads account
// state itself, so each retry revalidates against fresh balances.
func (s *Service) mutate(attempt func() error) error {
	var err error
	for i := 0; i <= maxRetries; i++ {
		err = attempt()
		if !errors.Is(err, storage.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("update contention not resolved after %d attempts: %w", maxRetries+1, err)
}

// audit appends entries for a completed operation. Failures are logged and
// never surfaced: the mutation has already committed.
func (s *Service) audit(ctx context.Context, entries ...models.LedgerEntry) {
	if err := s.Store.AppendLedgerEntries(ctx, entries); err != nil {
		s.Logger.Warn("failed to append ledger entries", "error", err)
	}
}

// entry builds a single audit entry for one account's side of an operation.
func entry(operation, accountID string, debit, credit int64, description string) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     uuid.New().String(),
		Operation:   operation,
		AccountID:   accountID,
		Debit:       debit,
		Credit:      credit,
		Description: description,
		Timestamp:   time.Now(),
	}
}
