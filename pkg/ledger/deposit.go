package ledger

import (
	"context"
	"fmt"
)

// Deposit adds amount to the user's cash, less the fee, and credits the fee
// to the bank account.
func (s *Service) Deposit(ctx context.Context, username, password string, amount int64) error {
	err := s.mutate(func() error {
		account, err := s.Verifier.Verify(ctx, username, password)
		if err != nil {
			return err
		}
		if err := validateAmount(amount); err != nil {
			return err
		}

		// The source system books cash + amount - Fee even when amount < Fee,
		// leaving the balance below its pre-deposit value. Preserved as
		// documented behavior.
		return s.Store.UpdateBalances(ctx, username, account.Cash+amount-Fee, account.Debt, account.Version)
	})
	if err != nil {
		return err
	}

	// The depositor's record is committed; a failed fee credit leaves the
	// ledger partially updated.
	if err := s.Store.CreditCash(ctx, BankAccount, Fee); err != nil {
		return fmt.Errorf("%w: bank fee credit after deposit: %v", ErrPartialFailure, err)
	}

	s.audit(ctx,
		entry("deposit", username, 0, amount-Fee, fmt.Sprintf("Deposit by %s", username)),
		entry("deposit", BankAccount, 0, Fee, fmt.Sprintf("Fee for deposit by %s", username)),
	)
	return nil
}
