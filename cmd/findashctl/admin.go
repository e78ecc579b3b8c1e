package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "replace the ledger with demo accounts and transactions" }
func (*seedCmd) Usage() string {
	return `findashctl seed

  Deletes every account and transaction, then creates six demo accounts and
  sixty days of random transactions ending today.
`
}
func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(s *session) error {
		if err := s.SeedDemoData(ctx, now()); err != nil {
			return err
		}
		st, err := s.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Seeded %d accounts and %d transactions\n", st.Counts.Accounts, st.Counts.Transactions)
		return nil
	})
}

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete every account and transaction" }
func (*resetCmd) Usage() string {
	return `findashctl reset -yes

  Permanently deletes all ledger data. -yes is required.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm that all data should be deleted.")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(stderr, "refusing to reset without -yes")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(s *session) error {
		if err := s.ResetAllData(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "All data deleted")
		return nil
	})
}

type statusCmd struct{}

func (*statusCmd) Name() string           { return "status" }
func (*statusCmd) Synopsis() string       { return "show the store in use and its row counts" }
func (*statusCmd) Usage() string          { return "findashctl status\n" }
func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(s *session) error {
		st, err := s.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Backend:      %s\nAccounts:     %d\nTransactions: %d\n",
			st.Backend, st.Counts.Accounts, st.Counts.Transactions)
		return nil
	})
}

// oneArg returns the single positional argument a command expects.
func oneArg(f *flag.FlagSet, what string) (string, error) {
	if f.NArg() != 1 {
		return "", errors.New("expected exactly one " + what)
	}
	return f.Arg(0), nil
}
