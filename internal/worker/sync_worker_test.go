package worker

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash/internal/amqp"
	"findash/internal/core"
	sheetsmem "findash/internal/sheets/memory"
	"findash/internal/storage/memory"
)

func seedTx(id string, amount int64) core.Transaction {
	return core.Transaction{
		ID:            id,
		Date:          core.NewDate(2024, 4, 2),
		Type:          core.Expense,
		Category:      "Kira",
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: "Garanti BBVA",
	}
}

func TestSyncWorker_HandleLedgerEvent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	mirror := sheetsmem.New()
	w := NewSyncWorker(store, mirror)

	tx := seedTx("t1", 100)
	require.NoError(t, store.CreateTransaction(ctx, tx))
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.ActionCreated, tx)))
	require.Len(t, mirror.Rows(), 1)

	// The worker mirrors the stored row, not the possibly stale snapshot.
	updated := seedTx("t1", 250)
	require.NoError(t, store.UpdateTransaction(ctx, updated))
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.ActionUpdated, tx)))
	assert.True(t, mirror.Rows()[0].Amount.Equal(decimal.NewFromInt(250)))

	require.NoError(t, store.DeleteTransaction(ctx, "t1"))
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.ActionDeleted, tx)))
	assert.Empty(t, mirror.Rows())

	// A create for a row deleted in the meantime is skipped.
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.ActionCreated, tx)))
	assert.Empty(t, mirror.Rows())

	require.NoError(t, w.HandleLedgerEvent(ctx, &amqp.LedgerEvent{Action: "archived"}))
}

func TestSyncWorker_ResetTriggersFullSync(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	mirror := sheetsmem.New()
	w := NewSyncWorker(store, mirror)

	require.NoError(t, mirror.Upsert(ctx, seedTx("stale", 1)))
	require.NoError(t, store.CreateTransaction(ctx, seedTx("a", 1)))
	require.NoError(t, store.CreateTransaction(ctx, seedTx("b", 2)))

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewResetEvent()))

	rows := mirror.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "b", rows[1].ID)
}
