package sheets

import (
	"context"

	"findash/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerMirror keeps an external copy of the transaction log, one row
	// per transaction keyed by its id.
	LedgerMirror interface {
		// Upsert writes t, replacing the row with the same id if present.
		Upsert(ctx context.Context, t core.Transaction) error
		// Remove drops the row for id. Missing rows are not an error.
		Remove(ctx context.Context, id string) error
		// ReplaceAll rewrites the mirror so it holds exactly txs.
		ReplaceAll(ctx context.Context, txs []core.Transaction) error
	}
)
