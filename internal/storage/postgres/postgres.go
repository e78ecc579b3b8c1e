// Package postgres implements storage.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/storage"
)

// schema is applied on every start. Every statement is idempotent so older
// databases only gain what they are missing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT,
		balance DOUBLE PRECISION,
		currency TEXT,
		account_type TEXT DEFAULT 'Bank'
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		date TEXT,
		type TEXT,
		category TEXT,
		amount DOUBLE PRECISION,
		description TEXT,
		payment_method TEXT
	)`,
	`ALTER TABLE accounts ADD COLUMN IF NOT EXISTS currency TEXT`,
	`ALTER TABLE accounts ADD COLUMN IF NOT EXISTS account_type TEXT DEFAULT 'Bank'`,
	`ALTER TABLE accounts ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
	`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS description TEXT`,
	`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS payment_method TEXT`,
	`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store is a storage.Store backed by a pgx connection pool.
type Store struct {
	db   dbtx
	pool *pgxpool.Pool
	// inTx marks the view handed to WithTx callbacks.
	inTx bool
}

// Open connects to url and applies the schema.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{db: pool, pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil && !s.inTx {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Describe() string {
	if s.pool == nil {
		return "postgres"
	}
	cfg := s.pool.Config().ConnConfig
	return fmt.Sprintf("postgres:%s/%s", cfg.Host, cfg.Database)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&Store{db: tx, pool: s.pool, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const accountColumns = `id, name, balance, currency, account_type`

func scanAccount(row pgx.Row) (storage.AccountRow, error) {
	var r storage.AccountRow
	err := row.Scan(&r.ID, &r.Name, &r.Balance, &r.Currency, &r.AccountType)
	return r, err
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) error {
	r := storage.NewAccountRow(a)
	_, err := s.db.Exec(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.Name, r.Balance, r.Currency, r.AccountType)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (core.Account, error) {
	r, err := scanAccount(s.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return r.Account(), nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY seq`)
}

func (s *Store) FindAccountsByName(ctx context.Context, name string) ([]core.Account, error) {
	return s.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE name = $1 ORDER BY seq`, name)
}

func (s *Store) queryAccounts(ctx context.Context, query string, args ...interface{}) ([]core.Account, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	out := []core.Account{}
	for rows.Next() {
		r, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, r.Account())
	}
	return out, rows.Err()
}

func (s *Store) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	tag, err := s.db.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, balance.InexactFloat64(), id)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return nil
}

const transactionColumns = `id, date, type, category, amount, description, payment_method`

func scanTransaction(row pgx.Row) (storage.TransactionRow, error) {
	var r storage.TransactionRow
	err := row.Scan(&r.ID, &r.Date, &r.Type, &r.Category, &r.Amount, &r.Description, &r.PaymentMethod)
	return r, err
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) error {
	r := storage.NewTransactionRow(t)
	_, err := s.db.Exec(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Date, r.Type, r.Category, r.Amount, r.Description, r.PaymentMethod)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	r, err := scanTransaction(s.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return r.Transaction(), nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		r, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, r.Transaction())
	}
	return out, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	r := storage.NewTransactionRow(t)
	tag, err := s.db.Exec(ctx,
		`UPDATE transactions SET date = $1, type = $2, category = $3, amount = $4, description = $5, payment_method = $6 WHERE id = $7`,
		r.Date, r.Type, r.Category, r.Amount, r.Description, r.PaymentMethod, r.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	return s.WithTx(ctx, func(tx storage.Store) error {
		db := tx.(*Store).db
		if _, err := db.Exec(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if _, err := db.Exec(ctx, `DELETE FROM accounts`); err != nil {
			return fmt.Errorf("delete accounts: %w", err)
		}
		return nil
	})
}

func (s *Store) Counts(ctx context.Context) (storage.Counts, error) {
	var c storage.Counts
	err := s.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM accounts), (SELECT COUNT(*) FROM transactions)`,
	).Scan(&c.Accounts, &c.Transactions)
	if err != nil {
		return storage.Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}

var _ storage.Store = (*Store)(nil)
