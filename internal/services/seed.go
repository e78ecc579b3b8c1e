package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/amqp"
	"findash/internal/core"
	"findash/internal/storage"
)

const seedDays = 60

type demoAccount struct {
	name     string
	balance  string
	currency core.Currency
	kind     core.AccountType
}

var demoAccounts = []demoAccount{
	{"Ziraat Bankası", "15400.50", core.TRY, core.Bank},
	{"Garanti BBVA", "4200", core.TRY, core.Bank},
	{"İş Bankası", "250", core.USD, core.Bank},
	{"Bonus Kredi Kartı", "-1200", core.TRY, core.CreditCard},
	{"Cüzdan", "500", core.TRY, core.Cash},
	{"Sodexo", "450", core.TRY, core.MealCard},
}

// demoPaymentMethods leaves out the USD account so demo amounts stay in lira.
var demoPaymentMethods = []string{"Cüzdan", "Bonus Kredi Kartı", "Sodexo", "Ziraat Bankası", "Garanti BBVA"}

// SeedDemoData replaces the whole ledger with demo accounts and sixty days
// of random transactions ending at now. Every demo transaction goes through
// the balance adjuster, so seeded balances agree with the seeded history.
func (s *LedgerService) SeedDemoData(ctx context.Context, now time.Time) error {
	var created int
	err := s.locked(func() error {
		return s.seed(ctx, now, &created)
	})
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	s.publish(ctx, amqp.NewResetEvent())
	s.log.InfoContext(ctx, "Demo data seeded", "accounts", len(demoAccounts), "transactions", created)
	return nil
}

func (s *LedgerService) seed(ctx context.Context, now time.Time, created *int) error {
	return s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.DeleteAll(ctx); err != nil {
			return err
		}
		for _, d := range demoAccounts {
			acc := core.Account{
				ID:       s.newID(),
				Name:     d.name,
				Balance:  decimal.RequireFromString(d.balance),
				Currency: d.currency,
				Type:     d.kind,
			}
			if err := tx.CreateAccount(ctx, acc); err != nil {
				return err
			}
		}

		today := core.DateOf(now)
		for day := 0; day < seedDays; day++ {
			date := core.DateOf(today.AddDate(0, 0, -day))
			for n := 1 + s.rng.IntN(3); n > 0; n-- {
				t := s.demoTransaction(date)
				if err := tx.CreateTransaction(ctx, t); err != nil {
					return err
				}
				if _, err := s.adjuster.Adjust(ctx, tx, t.PaymentMethod, t.Amount, t.Type); err != nil {
					return err
				}
				*created++
			}
		}
		return nil
	})
}

func (s *LedgerService) demoTransaction(date core.Date) core.Transaction {
	categories := core.DefaultCategories()
	t := core.Transaction{
		ID:            s.newID(),
		Date:          date,
		PaymentMethod: demoPaymentMethods[s.rng.IntN(len(demoPaymentMethods))],
	}
	if s.rng.Float64() > 0.7 {
		t.Type = core.Income
		t.Category = "Maaş"
		t.Amount = s.uniform(500, 2500)
	} else {
		t.Type = core.Expense
		t.Category = categories[s.rng.IntN(len(categories))]
		t.Amount = s.uniform(50, 400)
	}
	t.Description = "Demo " + string(t.Type)
	return t
}

func (s *LedgerService) uniform(lo, hi float64) decimal.Decimal {
	v := decimal.NewFromFloat(lo + s.rng.Float64()*(hi-lo)).Round(2)
	if !v.IsPositive() {
		return decimal.NewFromFloat(lo)
	}
	return v
}
