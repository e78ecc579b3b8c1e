package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash/internal/core"
	"findash/internal/storage"
)

// Runs only when TEST_POSTGRES_URL points at a disposable database.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, url)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.DeleteAll(ctx))

	require.NoError(t, s.CreateAccount(ctx, core.Account{ID: "a", Name: "Garanti BBVA", Balance: decimal.NewFromInt(4200), Currency: core.TRY, Type: core.Bank}))
	require.NoError(t, s.CreateTransaction(ctx, core.Transaction{ID: "t1", Date: core.NewDate(2024, 1, 1), Type: core.Expense, Category: "Kira", Amount: decimal.NewFromInt(100), PaymentMethod: "Garanti BBVA"}))
	require.NoError(t, s.CreateTransaction(ctx, core.Transaction{ID: "t2", Date: core.NewDate(2024, 2, 1), Type: core.Income, Category: "Maaş", Amount: decimal.NewFromInt(900), PaymentMethod: "Garanti BBVA"}))

	list, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t2", list[0].ID)

	boom := errors.New("boom")
	err = s.WithTx(ctx, func(tx storage.Store) error {
		require.NoError(t, tx.UpdateAccountBalance(ctx, "a", decimal.Zero))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.GetAccount(ctx, "a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(4200)))

	_, err = s.GetTransaction(ctx, "missing")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	require.NoError(t, s.DeleteAll(ctx))
	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.Counts{}, counts)
}
