package ledger

import "context"

// Balance returns the current cash and debt for the account. No mutation.
func (s *Service) Balance(ctx context.Context, username, password string) (cash, debt int64, err error) {
	account, err := s.Verifier.Verify(ctx, username, password)
	if err != nil {
		return 0, 0, err
	}
	return account.Cash, account.Debt, nil
}
