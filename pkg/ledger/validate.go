package ledger

import "github.com/chris/bank-ledger/pkg/models"

// validateAmount enforces strictly positive integer currency units.
func validateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// validateBalance enforces cash >= required against the snapshot taken
// during credential verification.
func validateBalance(account *models.Account, required int64) error {
	if account.Cash < required {
		return &InsufficientFundsError{Required: required}
	}
	return nil
}
