package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"findash/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the default Store, backed by a single SQLite file.
type SQLiteRepository struct {
	// db is nil on the transactional view handed to WithTx callbacks.
	db      *sql.DB
	queries *Queries
	path    string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Run migrations before the main connection opens so the schema is in place.
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer: one connection keeps transactions from racing each other.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	ctx := context.Background()
	if err := ensureColumns(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("upgrade legacy columns: %w", err)
	}
	if err := importLegacyAccounts(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("import legacy accounts: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Describe() string {
	return "sqlite:" + r.path
}

// Ping reports whether the database file is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) WithTx(ctx context.Context, fn func(Store) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txRepo := &SQLiteRepository{queries: r.queries.WithTx(tx), path: r.path}
	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger().ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) error {
	if err := r.queries.CreateAccount(ctx, NewAccountRow(a)); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return row.Account(), nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accountsFromRows(rows), nil
}

func (r *SQLiteRepository) FindAccountsByName(ctx context.Context, name string) ([]core.Account, error) {
	rows, err := r.queries.FindAccountsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find accounts by name: %w", err)
	}
	return accountsFromRows(rows), nil
}

func (r *SQLiteRepository) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	n, err := r.queries.UpdateAccountBalance(ctx, id, balance.InexactFloat64())
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	n, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := r.queries.CreateTransaction(ctx, NewTransactionRow(t)); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return row.Transaction(), nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactionsFromRows(rows), nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	n, err := r.queries.UpdateTransaction(ctx, NewTransactionRow(t))
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	return r.WithTx(ctx, func(s Store) error {
		q := s.(*SQLiteRepository).queries
		if err := q.DeleteAllTransactions(ctx); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if err := q.DeleteAllAccounts(ctx); err != nil {
			return fmt.Errorf("delete accounts: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Counts(ctx context.Context) (Counts, error) {
	accounts, transactions, err := r.queries.CountRows(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return Counts{Accounts: accounts, Transactions: transactions}, nil
}

func accountsFromRows(rows []AccountRow) []core.Account {
	out := make([]core.Account, len(rows))
	for i, row := range rows {
		out[i] = row.Account()
	}
	return out
}

func transactionsFromRows(rows []TransactionRow) []core.Transaction {
	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = row.Transaction()
	}
	return out
}
