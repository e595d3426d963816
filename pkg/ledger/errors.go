package ledger

import (
	"errors"
	"fmt"

	"github.com/chris/bank-ledger/pkg/auth"
)

// ErrUserExists is returned when registering a username that is taken.
var ErrUserExists = errors.New("user already exists")

// ErrInvalidAmount is returned when an amount is not strictly positive.
var ErrInvalidAmount = errors.New("amount must be greater than 0")

// ErrNoSuchRecipient marks an existence-check failure for a transfer's
// recipient, as opposed to the initiating user. It matches
// auth.ErrNoSuchUser under errors.Is.
var ErrNoSuchRecipient = fmt.Errorf("recipient: %w", auth.ErrNoSuchUser)

// ErrPartialFailure is returned when a store write fails after an earlier
// write of the same operation has already committed. The ledger is then in a
// partially-updated state and needs operator reconciliation; this must never
// be reported as a clean abort.
var ErrPartialFailure = errors.New("operation partially applied")

// InsufficientFundsError is returned when an account's cash cannot cover an
// operation. It carries the balance the operation required.
type InsufficientFundsError struct {
	Required int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account balance is below %d", e.Required)
}
