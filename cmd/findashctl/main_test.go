package main

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs one command the way the commander would and returns its
// exit status and output.
func execute(t *testing.T, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	status := cmd.Execute(context.Background(), fs)
	return status, out.String(), errOut.String()
}

func setup(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "findash.db"))
	t.Setenv("AMQP_URL", "")
	now = func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })
}

func TestLedgerCommands(t *testing.T) {
	setup(t)

	status, out, errOut := execute(t, &addAccountCmd{}, "-name", "Garanti BBVA", "-balance", "1000", "-currency", "TRY", "-type", "Bank")
	require.Equal(t, subcommands.ExitSuccess, status, errOut)
	accountID := strings.TrimSpace(out)
	require.NotEmpty(t, accountID)

	status, out, errOut = execute(t, &addCmd{}, "-type", "Expense", "-category", "Kira", "-amount", "200", "-pm", "Garanti BBVA", "-date", "2024-05-01")
	require.Equal(t, subcommands.ExitSuccess, status, errOut)
	txID := strings.TrimSpace(out)

	_, out, _ = execute(t, &accountsCmd{})
	assert.Contains(t, out, "Garanti BBVA")
	assert.Contains(t, out, "₺800.00")

	status, _, errOut = execute(t, &updateCmd{}, "-type", "Income", "-category", "Maaş", "-amount", "50", "-pm", "Garanti BBVA", txID)
	require.Equal(t, subcommands.ExitSuccess, status, errOut)
	_, out, _ = execute(t, &accountsCmd{})
	assert.Contains(t, out, "₺1,050.00")

	_, out, _ = execute(t, &listCmd{}, "-period", "2024-05")
	assert.Contains(t, out, txID)
	assert.Contains(t, out, "2024-05-20", "update without -date uses today")

	_, out, _ = execute(t, &summaryCmd{}, "-period", "2024-05")
	assert.Contains(t, out, "Period:        2024-05")
	assert.Contains(t, out, "(100.0%)")

	status, _, _ = execute(t, &deleteCmd{}, txID)
	assert.Equal(t, subcommands.ExitSuccess, status)
	status, _, _ = execute(t, &deleteCmd{}, txID)
	assert.Equal(t, subcommands.ExitSuccess, status, "deleting twice succeeds")

	_, out, _ = execute(t, &listCmd{})
	assert.Contains(t, out, "No transactions")

	status, _, _ = execute(t, &deleteAccountCmd{}, accountID)
	assert.Equal(t, subcommands.ExitSuccess, status)
	status, _, errOut = execute(t, &deleteAccountCmd{}, accountID)
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, errOut, "not found")
}

func TestInvalidInput(t *testing.T) {
	setup(t)

	status, _, errOut := execute(t, &addCmd{}, "-type", "transfer", "-amount", "-3", "-category", "Kira")
	assert.Equal(t, subcommands.ExitUsageError, status)
	assert.Contains(t, errOut, "type must be one of")
	assert.Contains(t, errOut, "amount must be a positive number")

	status, _, errOut = execute(t, &addCmd{}, "-type", "Expense", "-amount", "3")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, errOut, "category is required")

	status, _, _ = execute(t, &deleteCmd{})
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, _, _ = execute(t, &accountsCmd{}, "-type", "Savings")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestSeedAndReset(t *testing.T) {
	setup(t)

	status, out, errOut := execute(t, &seedCmd{})
	require.Equal(t, subcommands.ExitSuccess, status, errOut)
	assert.Contains(t, out, "Seeded 6 accounts")

	status, _, errOut = execute(t, &resetCmd{})
	assert.Equal(t, subcommands.ExitUsageError, status)
	assert.Contains(t, errOut, "-yes")

	status, _, _ = execute(t, &resetCmd{}, "-yes")
	require.Equal(t, subcommands.ExitSuccess, status)

	_, out, _ = execute(t, &statusCmd{})
	assert.Contains(t, out, "Accounts:     0")
	assert.Contains(t, out, "Transactions: 0")
}
