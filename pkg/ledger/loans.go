package ledger

import (
	"context"
	"fmt"
)

// TakeLoan disburses amount to the user's cash and books amount + Fee
// against their debt. The fee is added to debt rather than deducted from the
// disbursed cash; this asymmetry with the other operations is source
// behavior, preserved.
func (s *Service) TakeLoan(ctx context.Context, username, password string, amount int64) error {
	err := s.mutate(func() error {
		account, err := s.Verifier.Verify(ctx, username, password)
		if err != nil {
			return err
		}
		if err := validateAmount(amount); err != nil {
			return err
		}

		return s.Store.UpdateBalances(ctx, username, account.Cash+amount, account.Debt+amount+Fee, account.Version)
	})
	if err != nil {
		return err
	}

	if err := s.Store.CreditCash(ctx, BankAccount, Fee); err != nil {
		return fmt.Errorf("%w: bank fee credit after loan: %v", ErrPartialFailure, err)
	}

	s.audit(ctx,
		entry("take_loan", username, 0, amount, fmt.Sprintf("Loan to %s", username)),
		entry("take_loan", BankAccount, 0, Fee, fmt.Sprintf("Fee for loan to %s", username)),
	)
	return nil
}

// PayLoan repays up to amount of the user's debt from their cash. The amount
// is clamped to the outstanding debt, so the loan cannot be overpaid; the
// balance check uses the clamped amount plus the fee.
func (s *Service) PayLoan(ctx context.Context, username, password string, amount int64) error {
	var payment int64
	err := s.mutate(func() error {
		account, err := s.Verifier.Verify(ctx, username, password)
		if err != nil {
			return err
		}
		if err := validateAmount(amount); err != nil {
			return err
		}

		payment = amount
		if payment > account.Debt {
			payment = account.Debt
		}
		if err := validateBalance(account, payment+Fee); err != nil {
			return err
		}

		return s.Store.UpdateBalances(ctx, username, account.Cash-payment-Fee, account.Debt-payment, account.Version)
	})
	if err != nil {
		return err
	}

	if err := s.Store.CreditCash(ctx, BankAccount, Fee); err != nil {
		return fmt.Errorf("%w: bank fee credit after loan payment: %v", ErrPartialFailure, err)
	}

	s.audit(ctx,
		entry("pay_loan", username, payment+Fee, 0, fmt.Sprintf("Loan payment by %s", username)),
		entry("pay_loan", BankAccount, 0, Fee, fmt.Sprintf("Fee for loan payment by %s", username)),
	)
	return nil
}
