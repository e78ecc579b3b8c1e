package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"findash/internal/core"
)

type accountsCmd struct {
	accountType string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `findashctl accounts [-type <Bank|Credit Card|Cash|Meal Card>]
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.accountType, "type", "", "Only list accounts of this type.")
}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var accountType core.AccountType
	if strings.TrimSpace(c.accountType) != "" {
		accountType = core.ParseAccountType(c.accountType)
		if !accountType.IsValid() {
			fmt.Fprintf(stderr, "unknown account type %q\n", c.accountType)
			return subcommands.ExitUsageError
		}
	}
	return run(ctx, func(s *session) error {
		accounts, err := s.ListAccounts(ctx, accountType)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Fprintln(stdout, "No accounts")
			return nil
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, core.FormatMoney(a.Balance, a.Currency))
		}
		return w.Flush()
	})
}

type addAccountCmd struct {
	name        string
	balance     string
	currency    string
	accountType string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `findashctl add-account -name <name> [-balance <amount>] [-currency TRY|USD|EUR] [-type <type>]
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name; transactions refer to it as their payment method.")
	f.StringVar(&c.balance, "balance", "0", "Opening balance, may be negative.")
	f.StringVar(&c.currency, "currency", string(core.ReferenceCurrency), "Account currency.")
	f.StringVar(&c.accountType, "type", string(core.Bank), "Account type.")
}

func (c *addAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	balance, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(c.balance), ",", "."))
	if err != nil {
		fmt.Fprintf(stderr, "invalid balance %q\n", c.balance)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(s *session) error {
		id, err := s.AddAccount(ctx, core.AccountInput{
			Name:     c.name,
			Balance:  balance.Round(2),
			Currency: core.Currency(c.currency),
			Type:     core.AccountType(c.accountType),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, id)
		return nil
	})
}

type deleteAccountCmd struct{}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete an account, keeping its transactions" }
func (*deleteAccountCmd) Usage() string {
	return `findashctl delete-account <id>
`
}
func (*deleteAccountCmd) SetFlags(*flag.FlagSet) {}

func (*deleteAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "account id")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(s *session) error {
		if err := s.DeleteAccount(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Account deleted")
		return nil
	})
}
