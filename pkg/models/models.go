package models

import (
	"time"
)

// Account represents the internal domain model for a user's account.
// It includes dynamodbav tags for marshalling.
type Account struct {
	Username     string    `json:"username" dynamodbav:"username"`
	PasswordHash []byte    `json:"-" dynamodbav:"password_hash"`
	Cash         int64     `json:"cash" dynamodbav:"cash"`
	Debt         int64     `json:"debt" dynamodbav:"debt"`
	Version      int64     `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

// LedgerEntry represents a single entry in the audit ledger. Every committed
// cash movement produces one debit or credit entry per touched account.
type LedgerEntry struct {
	EntryID     string    `json:"entry_id" dynamodbav:"entry_id"`
	Operation   string    `json:"operation" dynamodbav:"operation"`
	AccountID   string    `json:"account_id" dynamodbav:"account_id"`
	Debit       int64     `json:"debit,omitempty" dynamodbav:"debit,omitempty"`
	Credit      int64     `json:"credit,omitempty" dynamodbav:"credit,omitempty"`
	Description string    `json:"description" dynamodbav:"description"`
	Timestamp   time.Time `json:"timestamp" dynamodbav:"timestamp"`
	GSI1PK      string    `json:"-" dynamodbav:"gsi1pk"`
}
