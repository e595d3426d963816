package ledger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chris/bank-ledger/pkg/auth"
	"github.com/chris/bank-ledger/pkg/ledger"
	"github.com/chris/bank-ledger/pkg/models"
	"github.com/chris/bank-ledger/pkg/storage"
	"github.com/chris/bank-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newService builds a ledger service on a fresh in-memory store with the
// BANK account provisioned, mirroring the production wiring.
func newService(t *testing.T) (*ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.CreateAccount(context.Background(), &models.Account{
		Username:  ledger.BankAccount,
		Version:   1,
		CreatedAt: time.Now(),
	}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ledger.New(store, auth.NewVerifier(store), logger), store
}

func register(t *testing.T, svc *ledger.Service, username, password string) {
	t.Helper()
	require.NoError(t, svc.Register(context.Background(), username, password))
}

func cash(t *testing.T, store *memory.Store, username string) int64 {
	t.Helper()
	account, err := store.GetAccount(context.Background(), username)
	require.NoError(t, err)
	return account.Cash
}

func debt(t *testing.T, store *memory.Store, username string) int64 {
	t.Helper()
	account, err := store.GetAccount(context.Background(), username)
	require.NoError(t, err)
	return account.Debt
}

func TestRegister(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	account, err := store.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.Cash)
	assert.Equal(t, int64(0), account.Debt)
	assert.NotEmpty(t, account.PasswordHash)

	t.Run("Duplicate", func(t *testing.T) {
		err := svc.Register(ctx, "alice", "other")
		assert.ErrorIs(t, err, ledger.ErrUserExists)

		// No state change on the second call.
		assert.Equal(t, int64(0), cash(t, store, "alice"))
		assert.Equal(t, int64(0), debt(t, store, "alice"))
	})
}

func TestDeposit(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")

	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100))

	assert.Equal(t, int64(99), cash(t, store, "alice"))
	assert.Equal(t, int64(1), cash(t, store, ledger.BankAccount))

	t.Run("Amount Equal To Fee", func(t *testing.T) {
		// cash + 1 - Fee nets to zero; the fee still reaches the bank.
		require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 1))
		assert.Equal(t, int64(99), cash(t, store, "alice"))
		assert.Equal(t, int64(2), cash(t, store, ledger.BankAccount))
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		for _, amount := range []int64{0, -5} {
			err := svc.Deposit(ctx, "alice", "pw1", amount)
			assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
		}
		assert.Equal(t, int64(99), cash(t, store, "alice"))
	})

	t.Run("Wrong Password", func(t *testing.T) {
		err := svc.Deposit(ctx, "alice", "nope", 100)
		assert.ErrorIs(t, err, auth.ErrWrongPassword)
		assert.Equal(t, int64(99), cash(t, store, "alice"))
	})

	t.Run("No Such User", func(t *testing.T) {
		err := svc.Deposit(ctx, "ghost", "pw", 100)
		assert.ErrorIs(t, err, auth.ErrNoSuchUser)
	})
}

func TestTransfer(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")
	register(t, svc, "bob", "pw2")
	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100))

	bankBefore := cash(t, store, ledger.BankAccount)
	totalBefore := cash(t, store, "alice") + cash(t, store, "bob") + bankBefore

	require.NoError(t, svc.Transfer(ctx, "alice", "pw1", "bob", 50))

	assert.Equal(t, int64(48), cash(t, store, "alice")) // 99 - 50 - 1
	assert.Equal(t, int64(50), cash(t, store, "bob"))
	assert.Equal(t, bankBefore+1, cash(t, store, ledger.BankAccount))

	// Total system cash is conserved; the fee merely moved to the bank.
	totalAfter := cash(t, store, "alice") + cash(t, store, "bob") + cash(t, store, ledger.BankAccount)
	assert.Equal(t, totalBefore, totalAfter)

	t.Run("Insufficient Funds", func(t *testing.T) {
		err := svc.Transfer(ctx, "alice", "pw1", "bob", 48) // needs 49
		var insufficient *ledger.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(49), insufficient.Required)

		// No balances changed.
		assert.Equal(t, int64(48), cash(t, store, "alice"))
		assert.Equal(t, int64(50), cash(t, store, "bob"))
	})

	t.Run("Unknown Recipient Checked Before Funds", func(t *testing.T) {
		// Both checks would fail; the recipient check runs first and must
		// win, per the protocol's validation order.
		err := svc.Transfer(ctx, "alice", "pw1", "ghost", 1000)
		assert.ErrorIs(t, err, ledger.ErrNoSuchRecipient)
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		err := svc.Transfer(ctx, "alice", "pw1", "bob", 0)
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})
}

func TestBalance(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")
	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100))

	cash, debt, err := svc.Balance(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(99), cash)
	assert.Equal(t, int64(0), debt)

	_, _, err = svc.Balance(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, auth.ErrWrongPassword)
}

func TestTakeLoan(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")

	require.NoError(t, svc.TakeLoan(ctx, "alice", "pw1", 50))

	// The fee is booked against debt, not deducted from the disbursed cash.
	assert.Equal(t, int64(50), cash(t, store, "alice"))
	assert.Equal(t, int64(51), debt(t, store, "alice"))
	assert.Equal(t, int64(1), cash(t, store, ledger.BankAccount))
}

func TestPayLoan(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")
	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100)) // cash 99

	t.Run("Loan Then Full Repayment", func(t *testing.T) {
		require.NoError(t, svc.TakeLoan(ctx, "alice", "pw1", 50)) // cash 149, debt 51
		require.NoError(t, svc.PayLoan(ctx, "alice", "pw1", 50))  // cash 98, debt 1

		// Principal cancels; each leg charged one fee, one against cash and
		// one against debt.
		assert.Equal(t, int64(98), cash(t, store, "alice"))
		assert.Equal(t, int64(1), debt(t, store, "alice"))
	})

	t.Run("Overpayment Clamped To Debt", func(t *testing.T) {
		require.NoError(t, svc.PayLoan(ctx, "alice", "pw1", 1000)) // debt 1 -> pays 1 + fee
		assert.Equal(t, int64(0), debt(t, store, "alice"))
		assert.Equal(t, int64(96), cash(t, store, "alice"))
	})

	t.Run("Insufficient Funds Uses Clamped Amount", func(t *testing.T) {
		svc2, store2 := newService(t)
		register(t, svc2, "bob", "pw2")
		require.NoError(t, svc2.TakeLoan(ctx, "bob", "pw2", 5)) // cash 5, debt 6

		// Clamped payment is 6, requiring 7; bob only has 5.
		err := svc2.PayLoan(ctx, "bob", "pw2", 100)
		var insufficient *ledger.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(7), insufficient.Required)
		assert.Equal(t, int64(5), cash(t, store2, "bob"))
		assert.Equal(t, int64(6), debt(t, store2, "bob"))
	})
}

func TestScenario(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))
	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100))
	assert.Equal(t, int64(99), cash(t, store, "alice"))

	require.NoError(t, svc.Register(ctx, "bob", "pw2"))
	require.NoError(t, svc.Transfer(ctx, "alice", "pw1", "bob", 50))
	assert.Equal(t, int64(48), cash(t, store, "alice"))
	assert.Equal(t, int64(50), cash(t, store, "bob"))

	aliceCash, aliceDebt, err := svc.Balance(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(48), aliceCash)
	assert.Equal(t, int64(0), aliceDebt)

	// Two fee-charging operations so far.
	assert.Equal(t, int64(2), cash(t, store, ledger.BankAccount))
}

func TestAuditEntries(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")
	register(t, svc, "bob", "pw2")
	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100))
	require.NoError(t, svc.Transfer(ctx, "alice", "pw1", "bob", 50))

	entries, err := store.ListLedgerEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 5) // 2 for the deposit, 3 for the transfer

	// Newest first: the transfer's entries balance to zero against the fee.
	var debits, credits int64
	for _, e := range entries[:3] {
		assert.Equal(t, "transfer", e.Operation)
		debits += e.Debit
		credits += e.Credit
	}
	assert.Equal(t, int64(51), debits)
	assert.Equal(t, int64(51), credits)
}

// conflictingStore forces a bounded number of version conflicts to exercise
// the read-revalidate-retry path.
type conflictingStore struct {
	storage.Storage
	conflicts int
}

func (s *conflictingStore) UpdateBalances(ctx context.Context, username string, cash, debt, expectedVersion int64) error {
	if s.conflicts > 0 {
		s.conflicts--
		return storage.ErrVersionConflict
	}
	return s.Storage.UpdateBalances(ctx, username, cash, debt, expectedVersion)
}

func TestDepositRetriesOnVersionConflict(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")

	svc.Store = &conflictingStore{Storage: store, conflicts: 2}

	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100))
	assert.Equal(t, int64(99), cash(t, store, "alice"))
	assert.Equal(t, int64(1), cash(t, store, ledger.BankAccount))
}

func TestDepositGivesUpAfterRetryBudget(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")

	svc.Store = &conflictingStore{Storage: store, conflicts: 100}

	err := svc.Deposit(ctx, "alice", "pw1", 100)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)
	assert.Equal(t, int64(0), cash(t, store, "alice"))
}

// failingCreditStore fails cash credits for one username, simulating a store
// outage between the writes of a multi-record operation.
type failingCreditStore struct {
	storage.Storage
	failFor string
}

func (s *failingCreditStore) CreditCash(ctx context.Context, username string, delta int64) error {
	if username == s.failFor {
		return errors.New("store unavailable")
	}
	return s.Storage.CreditCash(ctx, username, delta)
}

func TestTransferPartialFailure(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	register(t, svc, "alice", "pw1")
	register(t, svc, "bob", "pw2")
	require.NoError(t, svc.Deposit(ctx, "alice", "pw1", 100))

	svc.Store = &failingCreditStore{Storage: store, failFor: "bob"}

	err := svc.Transfer(ctx, "alice", "pw1", "bob", 50)
	require.ErrorIs(t, err, ledger.ErrPartialFailure)

	// The sender debit committed before the failure; the partial state is
	// surfaced, not rolled back.
	assert.Equal(t, int64(48), cash(t, store, "alice"))
	assert.Equal(t, int64(0), cash(t, store, "bob"))
}
