package http

import (
	"strings"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/summary"
)

// sanitizeInput drops control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type transactionJSON struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Type          core.TxType     `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	date := t.Date.String()
	if !t.HasDate() {
		date = t.DateRaw
	}
	return transactionJSON{
		ID:            t.ID,
		Date:          date,
		Type:          t.Type,
		Category:      t.Category,
		Amount:        t.Amount,
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
	}
}

func toTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, t := range txs {
		out[i] = toTransactionJSON(t)
	}
	return out
}

type accountJSON struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Balance     decimal.Decimal  `json:"balance"`
	Currency    core.Currency    `json:"currency"`
	AccountType core.AccountType `json:"account_type"`
	Display     string           `json:"display"`
}

func toAccountsJSON(accounts []core.Account) []accountJSON {
	out := make([]accountJSON, len(accounts))
	for i, a := range accounts {
		out[i] = accountJSON{
			ID:          a.ID,
			Name:        a.Name,
			Balance:     a.Balance,
			Currency:    a.Currency,
			AccountType: a.Type,
			Display:     core.FormatMoney(a.Balance, a.Currency),
		}
	}
	return out
}

type summaryJSON struct {
	summary.Summary
	TopExpenses []transactionJSON `json:"top_expenses"`
	NetWorthFmt string            `json:"net_worth_display"`
}

func toSummaryJSON(s summary.Summary) summaryJSON {
	return summaryJSON{
		Summary:     s,
		TopExpenses: toTransactionsJSON(s.TopExpenses),
		NetWorthFmt: core.FormatMoney(s.NetWorth, s.Currency),
	}
}
