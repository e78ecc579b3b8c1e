package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// TopExpenseCount is how many expenses TopExpenses returns.
const TopExpenseCount = 5

type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type AccountShare struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Currency  core.Currency   `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	// Reference is Balance converted to core.ReferenceCurrency.
	Reference decimal.Decimal `json:"reference"`
}

type TypeCounts struct {
	Income  int `json:"income"`
	Expense int `json:"expense"`
}

// Summary holds the dashboard figures for one period.
type Summary struct {
	Period            string             `json:"period"`
	Currency          core.Currency      `json:"currency"`
	TotalIncome       decimal.Decimal    `json:"total_income"`
	TotalExpense      decimal.Decimal    `json:"total_expense"`
	Savings           decimal.Decimal    `json:"savings"`
	SavingsRate       decimal.Decimal    `json:"savings_rate"`
	NetWorth          decimal.Decimal    `json:"net_worth"`
	CategoryBreakdown []CategoryAmount   `json:"category_breakdown"`
	TopExpenses       []core.Transaction `json:"-"`
	TypeCounts        TypeCounts         `json:"type_counts"`
	AssetDistribution []AccountShare     `json:"asset_distribution"`
}

// Compute builds the summary of txs in period p. txs must be in stored
// order (newest date first); it breaks ties among equal top expenses.
func Compute(txs []core.Transaction, accounts []core.Account, p Period) Summary {
	inPeriod := FilterPeriod(txs, p)

	s := Summary{
		Period:            p.String(),
		Currency:          core.ReferenceCurrency,
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		CategoryBreakdown: CategoryBreakdown(inPeriod),
		TopExpenses:       TopExpenses(inPeriod, TopExpenseCount),
		NetWorth:          NetWorth(accounts),
		AssetDistribution: AssetDistribution(accounts),
	}

	for _, t := range inPeriod {
		switch t.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			s.TypeCounts.Income++
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			s.TypeCounts.Expense++
		}
	}

	s.Savings = decimal.Max(decimal.Zero, s.TotalIncome.Sub(s.TotalExpense))
	s.SavingsRate = SavingsRate(s.Savings, s.TotalIncome)
	return s
}

// SavingsRate is savings as a percentage of income, rounded to one decimal.
// It is zero when there is no income.
func SavingsRate(savings, income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return savings.Div(income).Mul(decimal.NewFromInt(100)).Round(1)
}

// NetWorth sums every account balance in the reference currency. Every
// payment method that moves money is expected to be an account, so
// untracked cash is not added on top.
func NetWorth(accounts []core.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.ReferenceBalance())
	}
	return total
}

func AssetDistribution(accounts []core.Account) []AccountShare {
	out := make([]AccountShare, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountShare{
			AccountID: a.ID,
			Name:      a.Name,
			Currency:  a.Currency,
			Balance:   a.Balance,
			Reference: a.ReferenceBalance(),
		})
	}
	return out
}

// CategoryBreakdown sums expenses per category, largest first, ties by name.
func CategoryBreakdown(txs []core.Transaction) []CategoryAmount {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	out := make([]CategoryAmount, 0, len(totals))
	for cat, amt := range totals {
		out = append(out, CategoryAmount{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopExpenses returns the n largest expenses. Equal amounts keep their
// input order.
func TopExpenses(txs []core.Transaction, n int) []core.Transaction {
	var expenses []core.Transaction
	for _, t := range txs {
		if t.Type == core.Expense {
			expenses = append(expenses, t)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.GreaterThan(expenses[j].Amount)
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	if expenses == nil {
		return []core.Transaction{}
	}
	return expenses
}
