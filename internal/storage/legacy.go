package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	flog "findash/internal/log"
)

type column struct {
	table string
	name  string
	ddl   string
}

// additiveColumns lists columns added after the first release. Databases
// written by older versions are upgraded in place; existing rows read the
// column as NULL.
var additiveColumns = []column{
	{"transactions", "description", "TEXT"},
	{"transactions", "payment_method", "TEXT"},
	{"accounts", "currency", "TEXT"},
	{"accounts", "account_type", "TEXT DEFAULT 'Bank'"},
}

func ensureColumns(ctx context.Context, db *sql.DB) error {
	for _, c := range additiveColumns {
		if err := addColumnIfMissing(ctx, db, c); err != nil {
			return err
		}
	}
	return nil
}

func addColumnIfMissing(ctx context.Context, db *sql.DB, c column) error {
	cols, err := tableColumns(ctx, db, c.table)
	if err != nil {
		return err
	}
	if len(cols) == 0 || cols[c.name] {
		return nil
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.name, c.ddl)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("add column %s.%s: %w", c.table, c.name, err)
	}
	logger().InfoContext(ctx, "Added missing column", "table", c.table, "column", c.name)
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     sql.NullString
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// importLegacyAccounts copies rows from the bank_accounts table used by
// earlier versions into accounts. It only runs while accounts is empty, so
// the copy happens once.
func importLegacyAccounts(ctx context.Context, db *sql.DB) error {
	legacy, err := tableColumns(ctx, db, "bank_accounts")
	if err != nil {
		return err
	}
	if len(legacy) == 0 {
		return nil
	}

	var existing int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&existing); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if existing > 0 {
		return nil
	}

	accountType := "NULL"
	if legacy["account_type"] {
		accountType = "account_type"
	}
	stmt := fmt.Sprintf(`INSERT INTO accounts (id, name, balance, currency, account_type)
		SELECT CAST(id AS TEXT), name, balance, currency, %s FROM bank_accounts`, accountType)
	res, err := db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("copy bank_accounts: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger().InfoContext(ctx, "Imported legacy accounts", "count", n)
	}
	return nil
}

func logger() *slog.Logger {
	return slog.Default().With(flog.FieldComponent, flog.ComponentStorage)
}
