package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"findash/internal/core"
	"findash/internal/summary"
)

type listCmd struct {
	period   string
	txType   string
	category string
	query    string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions, newest first" }
func (*listCmd) Usage() string {
	return `findashctl list [-period YYYY-MM|all] [-type Income|Expense] [-category <name>] [-q <text>]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "all", "Month to list.")
	f.StringVar(&c.txType, "type", "", "Only list this transaction type.")
	f.StringVar(&c.category, "category", "", "Only list this category.")
	f.StringVar(&c.query, "q", "", "Search category, description and payment method.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := summary.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	filter := summary.Filter{Period: p, Category: c.category, Query: c.query}
	if c.txType != "" {
		t, ok := core.ParseTxType(c.txType)
		if !ok {
			fmt.Fprintf(stderr, "unknown transaction type %q\n", c.txType)
			return subcommands.ExitUsageError
		}
		filter.Type = t
	}

	return run(ctx, func(s *session) error {
		txs, err := s.ListTransactions(ctx, filter)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Fprintln(stdout, "No transactions")
			return nil
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tPAYMENT METHOD\tDESCRIPTION")
		for _, t := range txs {
			date := t.Date.String()
			if !t.HasDate() {
				date = t.DateRaw
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, date, t.Type, t.Category, core.FormatMoney(t.Amount, core.ReferenceCurrency), t.PaymentMethod, t.Description)
		}
		return w.Flush()
	})
}

// txFlags are the fields shared by add and update.
type txFlags struct {
	date          string
	txType        string
	category      string
	amount        string
	description   string
	paymentMethod string
}

func (t *txFlags) register(f *flag.FlagSet) {
	f.StringVar(&t.date, "date", "", "Transaction date, YYYY-MM-DD (defaults to today).")
	f.StringVar(&t.txType, "type", string(core.Expense), "Income or Expense.")
	f.StringVar(&t.category, "category", "", "Category, e.g. Kira.")
	f.StringVar(&t.amount, "amount", "", "Positive amount; dot or comma decimals.")
	f.StringVar(&t.description, "desc", "", "Optional description.")
	f.StringVar(&t.paymentMethod, "pm", "Nakit", "Payment method: an account name or a label such as Nakit.")
}

// input converts the flags into a transaction input, collecting every
// malformed field.
func (t *txFlags) input() (core.TransactionInput, error) {
	verr := &core.ValidationError{}
	in := core.TransactionInput{
		Category:      t.category,
		Description:   t.description,
		PaymentMethod: t.paymentMethod,
		Date:          core.DateOf(now()),
	}
	if ty, ok := core.ParseTxType(t.txType); ok {
		in.Type = ty
	} else {
		verr.Add("type", "must be one of Income Expense")
	}
	if amount, err := core.ParseAmount(t.amount); err == nil {
		in.Amount = amount
	} else {
		verr.Add("amount", "must be a positive number")
	}
	if t.date != "" {
		d, err := core.ParseDate(t.date)
		if err != nil {
			verr.Add("date", "must be a date in YYYY-MM-DD format")
		}
		in.Date = d
	}
	return in, verr.Err()
}

type addCmd struct {
	txFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction and update its account balance" }
func (*addCmd) Usage() string {
	return `findashctl add -type Income|Expense -category <name> -amount <amount> [-pm <account>] [-date YYYY-MM-DD] [-desc <text>]
`
}
func (c *addCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := c.input()
	if err != nil {
		fmt.Fprintln(stderr, describe(err))
		return subcommands.ExitUsageError
	}
	return run(ctx, func(s *session) error {
		id, err := s.AddTransaction(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, id)
		return nil
	})
}

type updateCmd struct {
	txFlags
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "replace a transaction, moving its balance effect" }
func (*updateCmd) Usage() string {
	return `findashctl update [flags as for add] <id>
`
}
func (c *updateCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "transaction id")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	in, err := c.input()
	if err != nil {
		fmt.Fprintln(stderr, describe(err))
		return subcommands.ExitUsageError
	}
	return run(ctx, func(s *session) error {
		if err := s.UpdateTransaction(ctx, id, in); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Transaction updated")
		return nil
	})
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a transaction and reverse its balance effect" }
func (*deleteCmd) Usage() string {
	return `findashctl delete <id>
`
}
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "transaction id")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(s *session) error {
		if err := s.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Transaction deleted")
		return nil
	})
}
