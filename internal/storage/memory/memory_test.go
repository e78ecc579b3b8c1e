package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash/internal/core"
	"findash/internal/storage"
)

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateAccount(ctx, core.Account{ID: "a", Name: "Sodexo", Balance: decimal.NewFromInt(450), Currency: core.TRY, Type: core.MealCard}))
	require.Error(t, s.CreateAccount(ctx, core.Account{ID: "a"}))

	require.NoError(t, s.UpdateAccountBalance(ctx, "a", decimal.NewFromInt(400)))
	acc, err := s.GetAccount(ctx, "a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(400)))

	assert.True(t, errors.Is(s.UpdateAccountBalance(ctx, "missing", decimal.Zero), core.ErrNotFound))
	_, err = s.GetTransaction(ctx, "missing")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	require.NoError(t, s.CreateTransaction(ctx, core.Transaction{ID: "t1", Date: core.NewDate(2024, 1, 1)}))
	require.NoError(t, s.CreateTransaction(ctx, core.Transaction{ID: "t2", Date: core.NewDate(2024, 2, 1)}))
	require.NoError(t, s.CreateTransaction(ctx, core.Transaction{ID: "t3", Date: core.NewDate(2024, 2, 1)}))

	list, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "t2", list[0].ID)
	assert.Equal(t, "t3", list[1].ID)
	assert.Equal(t, "t1", list[2].ID)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.Counts{Accounts: 1, Transactions: 3}, counts)
}

func TestStoreWithTx(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateAccount(ctx, core.Account{ID: "a", Name: "Cüzdan", Balance: decimal.NewFromInt(500)}))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx storage.Store) error {
		require.NoError(t, tx.UpdateAccountBalance(ctx, "a", decimal.NewFromInt(1)))
		require.NoError(t, tx.CreateTransaction(ctx, core.Transaction{ID: "t"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.GetAccount(ctx, "a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(500)))

	require.NoError(t, s.WithTx(ctx, func(tx storage.Store) error {
		return tx.DeleteAccount(ctx, "a")
	}))
	_, err = s.GetAccount(ctx, "a")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
