package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"findash/internal/core"
	"findash/internal/summary"
)

type summaryCmd struct {
	period string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show income, expenses, savings and net worth" }
func (*summaryCmd) Usage() string {
	return `findashctl summary [-period YYYY-MM|all]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "all", "Month to summarise.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := summary.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(s *session) error {
		sum, err := s.Summary(ctx, p)
		if err != nil {
			return err
		}
		cur := sum.Currency
		fmt.Fprintf(stdout, "Period:        %s\n", sum.Period)
		fmt.Fprintf(stdout, "Income:        %s\n", core.FormatMoney(sum.TotalIncome, cur))
		fmt.Fprintf(stdout, "Expenses:      %s\n", core.FormatMoney(sum.TotalExpense, cur))
		fmt.Fprintf(stdout, "Savings:       %s (%s%%)\n", core.FormatMoney(sum.Savings, cur), sum.SavingsRate.StringFixed(1))
		fmt.Fprintf(stdout, "Net worth:     %s\n", core.FormatMoney(sum.NetWorth, cur))

		if len(sum.CategoryBreakdown) > 0 {
			fmt.Fprintln(stdout, "\nExpenses by category:")
			w := newTable()
			for _, c := range sum.CategoryBreakdown {
				fmt.Fprintf(w, "  %s\t%s\n", c.Category, core.FormatMoney(c.Amount, cur))
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
		if len(sum.TopExpenses) > 0 {
			fmt.Fprintln(stdout, "\nTop expenses:")
			w := newTable()
			for _, t := range sum.TopExpenses {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", t.Date, t.Category, core.FormatMoney(t.Amount, cur))
			}
			return w.Flush()
		}
		return nil
	})
}
