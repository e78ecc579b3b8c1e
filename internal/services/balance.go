package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/storage"
)

// BalanceAdjuster is the only code path that changes account balances.
type BalanceAdjuster struct{}

func NewBalanceAdjuster() *BalanceAdjuster {
	return &BalanceAdjuster{}
}

// Adjust applies amount to the account named accountName, adding it for
// income and subtracting it for expenses. It reports false without touching
// the store when no account has that name, which is how non-account payment
// methods such as "Nakit" are handled. Two accounts sharing the name abort
// with core.ErrAmbiguousAccount.
func (a *BalanceAdjuster) Adjust(ctx context.Context, s storage.Store, accountName string, amount decimal.Decimal, ty core.TxType) (bool, error) {
	if !ty.IsValid() {
		return false, fmt.Errorf("adjust %q: unknown transaction type %q: %w", accountName, ty, core.ErrValidation)
	}

	matches, err := s.FindAccountsByName(ctx, accountName)
	if err != nil {
		return false, fmt.Errorf("adjust %q: %w", accountName, err)
	}
	switch len(matches) {
	case 0:
		return false, nil
	case 1:
	default:
		return false, fmt.Errorf("adjust %q: %d accounts: %w", accountName, len(matches), core.ErrAmbiguousAccount)
	}

	acc := matches[0]
	newBalance := acc.Balance.Add(amount.Mul(ty.Sign()))
	if err := s.UpdateAccountBalance(ctx, acc.ID, newBalance); err != nil {
		return false, fmt.Errorf("adjust %q: %w", accountName, err)
	}

	slog.DebugContext(ctx, "Adjusted account balance",
		"account", acc.Name,
		"type", ty,
		"amount", amount.String(),
		"balance", newBalance.String())
	return true, nil
}
