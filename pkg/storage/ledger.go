package storage

import (
	"context"

	"github.com/chris/bank-ledger/pkg/models"
)

// LedgerStore defines the interface for the append-only audit ledger.
type LedgerStore interface {
	// AppendLedgerEntries persists the entries produced by one completed
	// operation.
	AppendLedgerEntries(ctx context.Context, entries []models.LedgerEntry) error

	// ListLedgerEntries retrieves the most recent ledger entries.
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)
}
