package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

const createAccount = `INSERT INTO accounts (id, name, balance, currency, account_type) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) CreateAccount(ctx context.Context, arg AccountRow) error {
	_, err := q.db.ExecContext(ctx, createAccount, arg.ID, arg.Name, arg.Balance, arg.Currency, arg.AccountType)
	return err
}

const getAccount = `SELECT id, name, balance, currency, account_type FROM accounts WHERE id = ?`

func (q *Queries) GetAccount(ctx context.Context, id string) (AccountRow, error) {
	row := q.db.QueryRowContext(ctx, getAccount, id)
	var i AccountRow
	err := row.Scan(&i.ID, &i.Name, &i.Balance, &i.Currency, &i.AccountType)
	return i, err
}

const listAccounts = `SELECT id, name, balance, currency, account_type FROM accounts ORDER BY rowid`

func (q *Queries) ListAccounts(ctx context.Context) ([]AccountRow, error) {
	return q.queryAccounts(ctx, listAccounts)
}

const findAccountsByName = `SELECT id, name, balance, currency, account_type FROM accounts WHERE name = ? ORDER BY rowid`

func (q *Queries) FindAccountsByName(ctx context.Context, name string) ([]AccountRow, error) {
	return q.queryAccounts(ctx, findAccountsByName, name)
}

func (q *Queries) queryAccounts(ctx context.Context, query string, args ...interface{}) ([]AccountRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []AccountRow{}
	for rows.Next() {
		var i AccountRow
		if err := rows.Scan(&i.ID, &i.Name, &i.Balance, &i.Currency, &i.AccountType); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateAccountBalance = `UPDATE accounts SET balance = ? WHERE id = ?`

func (q *Queries) UpdateAccountBalance(ctx context.Context, id string, balance float64) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountBalance, balance, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAccount = `DELETE FROM accounts WHERE id = ?`

func (q *Queries) DeleteAccount(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createTransaction = `INSERT INTO transactions (id, date, type, category, amount, description, payment_method) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTransaction(ctx context.Context, arg TransactionRow) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID, arg.Date, arg.Type, arg.Category, arg.Amount, arg.Description, arg.PaymentMethod)
	return err
}

const getTransaction = `SELECT id, date, type, category, amount, description, payment_method FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id string) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i TransactionRow
	err := row.Scan(&i.ID, &i.Date, &i.Type, &i.Category, &i.Amount, &i.Description, &i.PaymentMethod)
	return i, err
}

const listTransactions = `SELECT id, date, type, category, amount, description, payment_method FROM transactions ORDER BY date DESC, rowid ASC`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TransactionRow{}
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.ID, &i.Date, &i.Type, &i.Category, &i.Amount, &i.Description, &i.PaymentMethod); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `UPDATE transactions SET date = ?, type = ?, category = ?, amount = ?, description = ?, payment_method = ? WHERE id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, arg TransactionRow) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Date, arg.Type, arg.Category, arg.Amount, arg.Description, arg.PaymentMethod, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTransactions)
	return err
}

const deleteAllAccounts = `DELETE FROM accounts`

func (q *Queries) DeleteAllAccounts(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllAccounts)
	return err
}

const countRows = `SELECT (SELECT COUNT(*) FROM accounts), (SELECT COUNT(*) FROM transactions)`

func (q *Queries) CountRows(ctx context.Context) (int64, int64, error) {
	row := q.db.QueryRowContext(ctx, countRows)
	var accounts, transactions int64
	err := row.Scan(&accounts, &transactions)
	return accounts, transactions, err
}
