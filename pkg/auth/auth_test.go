package auth_test

import (
	"context"
	"testing"

	"github.com/chris/bank-ledger/pkg/auth"
	"github.com/chris/bank-ledger/pkg/models"
	"github.com/chris/bank-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifierWithUser(t *testing.T, username, password string) *auth.Verifier {
	t.Helper()
	store := memory.New()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(context.Background(), &models.Account{
		Username:     username,
		PasswordHash: hash,
		Version:      1,
	}))
	return auth.NewVerifier(store)
}

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)

	// The raw password must never appear in the stored hash.
	assert.NotContains(t, string(hash), "secret")

	// A second hash of the same password uses a fresh salt.
	hash2, err := auth.HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerify(t *testing.T) {
	v := newVerifierWithUser(t, "alice", "pw1")

	t.Run("Valid", func(t *testing.T) {
		account, err := v.Verify(context.Background(), "alice", "pw1")
		require.NoError(t, err)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, int64(1), account.Version)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "alice", "pw2")
		assert.ErrorIs(t, err, auth.ErrWrongPassword)
	})

	t.Run("No Such User", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "bob", "pw1")
		assert.ErrorIs(t, err, auth.ErrNoSuchUser)
	})
}

func TestExists(t *testing.T) {
	v := newVerifierWithUser(t, "alice", "pw1")

	exists, err := v.Exists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = v.Exists(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}
