package ledger

import (
	"context"
	"fmt"
)

// Transfer moves amount from the initiating user to the recipient. The
// sender pays amount + Fee; the recipient receives the full amount. The
// three record updates are individually atomic but not wrapped in a
// cross-record transaction, so a store failure after the sender debit
// surfaces as ErrPartialFailure.
func (s *Service) Transfer(ctx context.Context, username, password, to string, amount int64) error {
	err := s.mutate(func() error {
		account, err := s.Verifier.Verify(ctx, username, password)
		if err != nil {
			return err
		}

		recipientExists, err := s.Verifier.Exists(ctx, to)
		if err != nil {
			return err
		}
		if !recipientExists {
			return ErrNoSuchRecipient
		}

		if err := validateAmount(amount); err != nil {
			return err
		}
		if err := validateBalance(account, amount+Fee); err != nil {
			return err
		}

		return s.Store.UpdateBalances(ctx, username, account.Cash-amount-Fee, account.Debt, account.Version)
	})
	if err != nil {
		return err
	}

	// Past this point the sender has been debited.
	if err := s.Store.CreditCash(ctx, to, amount); err != nil {
		return fmt.Errorf("%w: recipient credit after sender debit: %v", ErrPartialFailure, err)
	}
	if err := s.Store.CreditCash(ctx, BankAccount, Fee); err != nil {
		return fmt.Errorf("%w: bank fee credit after transfer: %v", ErrPartialFailure, err)
	}

	description := fmt.Sprintf("Transfer from %s to %s", username, to)
	s.audit(ctx,
		entry("transfer", username, amount+Fee, 0, description),
		entry("transfer", to, 0, amount, description),
		entry("transfer", BankAccount, 0, Fee, fmt.Sprintf("Fee for transfer from %s", username)),
	)
	return nil
}
