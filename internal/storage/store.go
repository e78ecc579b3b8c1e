package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// Store is the persistence contract shared by every backend.
//
// Reads by id return an error wrapping core.ErrNotFound when the row is
// absent. WithTx runs fn against a transactional view of the store that is
// committed when fn returns nil and rolled back otherwise. Calling WithTx on
// a store that is already transactional runs fn inline.
type Store interface {
	CreateAccount(ctx context.Context, a core.Account) error
	GetAccount(ctx context.Context, id string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	FindAccountsByName(ctx context.Context, name string) ([]core.Account, error)
	UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error
	DeleteAccount(ctx context.Context, id string) error

	CreateTransaction(ctx context.Context, t core.Transaction) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	// ListTransactions returns every transaction, newest date first.
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	DeleteAll(ctx context.Context) error
	Counts(ctx context.Context) (Counts, error)

	WithTx(ctx context.Context, fn func(Store) error) error
	Describe() string
	Close() error
}

// Counts holds the number of rows per table.
type Counts struct {
	Accounts     int64 `json:"accounts"`
	Transactions int64 `json:"transactions"`
}

// AccountRow mirrors the accounts table. Every column except the key is
// nullable because older databases gained columns after rows were written.
type AccountRow struct {
	ID          string
	Name        sql.NullString
	Balance     sql.NullFloat64
	Currency    sql.NullString
	AccountType sql.NullString
}

// TransactionRow mirrors the transactions table.
type TransactionRow struct {
	ID            string
	Date          sql.NullString
	Type          sql.NullString
	Category      sql.NullString
	Amount        sql.NullFloat64
	Description   sql.NullString
	PaymentMethod sql.NullString
}

func (r AccountRow) Account() core.Account {
	return core.Account{
		ID:       r.ID,
		Name:     r.Name.String,
		Balance:  decimal.NewFromFloat(r.Balance.Float64).Round(2),
		Currency: core.Currency(strings.ToUpper(strings.TrimSpace(r.Currency.String))),
		Type:     core.ParseAccountType(r.AccountType.String),
	}
}

func (r TransactionRow) Transaction() core.Transaction {
	t := core.Transaction{
		ID:            r.ID,
		Category:      r.Category.String,
		Amount:        decimal.NewFromFloat(r.Amount.Float64).Round(2),
		Description:   r.Description.String,
		PaymentMethod: r.PaymentMethod.String,
	}
	if ty, ok := core.ParseTxType(r.Type.String); ok {
		t.Type = ty
	} else {
		t.Type = core.TxType(r.Type.String)
	}
	if d, err := core.ParseDate(r.Date.String); err == nil {
		t.Date = d
	} else {
		t.DateRaw = r.Date.String
	}
	return t
}

func NewAccountRow(a core.Account) AccountRow {
	return AccountRow{
		ID:          a.ID,
		Name:        sql.NullString{String: a.Name, Valid: true},
		Balance:     sql.NullFloat64{Float64: a.Balance.InexactFloat64(), Valid: true},
		Currency:    sql.NullString{String: string(a.Currency), Valid: true},
		AccountType: sql.NullString{String: string(a.Type), Valid: true},
	}
}

func NewTransactionRow(t core.Transaction) TransactionRow {
	date := t.Date.String()
	if date == "" {
		date = t.DateRaw
	}
	return TransactionRow{
		ID:            t.ID,
		Date:          sql.NullString{String: date, Valid: true},
		Type:          sql.NullString{String: string(t.Type), Valid: true},
		Category:      sql.NullString{String: t.Category, Valid: true},
		Amount:        sql.NullFloat64{Float64: t.Amount.InexactFloat64(), Valid: true},
		Description:   sql.NullString{String: t.Description, Valid: true},
		PaymentMethod: sql.NullString{String: t.PaymentMethod, Valid: true},
	}
}
