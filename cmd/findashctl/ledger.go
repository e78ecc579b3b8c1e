package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"findash/internal/amqp"
	"findash/internal/cli"
	"findash/internal/config"
	"findash/internal/core"
	flog "findash/internal/log"
	"findash/internal/services"
)

// stdout and stderr are swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	now              = time.Now
)

var commands = []subcommands.Command{
	&seedCmd{},
	&resetCmd{},
	&statusCmd{},
	&summaryCmd{},
	&accountsCmd{},
	&addAccountCmd{},
	&deleteAccountCmd{},
	&listCmd{},
	&addCmd{},
	&updateCmd{},
	&deleteCmd{},
}

// session is one command's view of the ledger.
type session struct {
	*services.LedgerService
	amqp *amqp.Client
}

// openLedger opens the configured store. Events are published when AMQP is
// configured so the sheets mirror sees CLI edits too.
func openLedger(ctx context.Context) (*session, error) {
	cfg, err := cli.LoadConfig((*config.Config).Validate)
	if err != nil {
		return nil, err
	}
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	logger := flog.New(flog.Config{Level: lvl, Component: flog.ComponentCLI, Output: stderr})
	flog.SetDefault(logger)

	store, err := cli.OpenStore(ctx, logger, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	s := &session{}
	opts := []services.Option{services.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, ledger events will not be published", flog.FieldError, err.Error())
		} else {
			s.amqp = client
			opts = append(opts, services.WithPublisher(client))
		}
	}
	s.LedgerService = services.NewLedgerService(store, opts...)
	return s, nil
}

func (s *session) Close() {
	if s.amqp != nil {
		_ = s.amqp.Close()
	}
	_ = s.LedgerService.Close()
}

// run opens the ledger, calls fn and maps its error onto an exit status.
func run(ctx context.Context, fn func(*session) error) subcommands.ExitStatus {
	s, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := fn(s); err != nil {
		fmt.Fprintln(stderr, describe(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// describe renders validation errors one field per line.
func describe(err error) string {
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		return "Error: " + err.Error()
	}
	var b strings.Builder
	b.WriteString("Invalid input:")
	for _, f := range verr.Fields {
		fmt.Fprintf(&b, "\n  %s %s", f.Field, f.Message)
	}
	return b.String()
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}
