package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"findash/internal/amqp"
	"findash/internal/cache"
	"findash/internal/core"
	flog "findash/internal/log"
	"findash/internal/storage"
	"findash/internal/summary"
)

// Publisher announces committed ledger mutations.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// Status describes the store behind the ledger.
type Status struct {
	Backend string         `json:"backend"`
	Counts  storage.Counts `json:"counts"`
}

// LedgerService keeps transactions and account balances consistent.
//
// Mutations are serialised and each one runs inside a single store
// transaction, so a failure leaves the previous state untouched. Events are
// published after commit and never fail the request.
type LedgerService struct {
	store     storage.Store
	adjuster  *BalanceAdjuster
	publisher Publisher
	summaries cache.Cache[summary.Summary]

	mu    sync.Mutex
	newID func() string
	rng   *rand.Rand
	log   *flog.Logger
}

type Option func(*LedgerService)

// WithPublisher sets where ledger events go. Without one, events are dropped.
func WithPublisher(p Publisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithSummaryCache caches computed summaries per period until the next write.
func WithSummaryCache(c cache.Cache[summary.Summary]) Option {
	return func(s *LedgerService) { s.summaries = c }
}

// WithLogger sets the logger; records are tagged with the ledger component.
func WithLogger(l *flog.Logger) Option {
	return func(s *LedgerService) { s.log = l.WithComponent(flog.ComponentLedger) }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *LedgerService) { s.newID = fn }
}

// WithRand sets the random source used by SeedDemoData.
func WithRand(r *rand.Rand) Option {
	return func(s *LedgerService) { s.rng = r }
}

func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:    store,
		adjuster: NewBalanceAdjuster(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = flog.FromSlog(slog.Default(), flog.ComponentLedger)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	return s
}

// AddTransaction records a new transaction and applies its balance effect.
func (s *LedgerService) AddTransaction(ctx context.Context, in core.TransactionInput) (string, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return "", err
	}

	var t core.Transaction
	err := s.locked(func() error {
		t = in.Transaction(s.newID())
		return s.store.WithTx(ctx, func(tx storage.Store) error {
			if err := tx.CreateTransaction(ctx, t); err != nil {
				return err
			}
			_, err := s.adjuster.Adjust(ctx, tx, t.PaymentMethod, t.Amount, t.Type)
			return err
		})
	})
	if err != nil {
		return "", fmt.Errorf("add transaction: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerEvent(amqp.ActionCreated, t))
	s.log.InfoContext(ctx, "Transaction added", transactionFields(t).ToSlice()...)
	return t.ID, nil
}

// UpdateTransaction replaces every field of transaction id. The old effect is
// reversed before the new one is applied, even when the payment method did
// not change.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	updated := in.Transaction(id)
	err := s.locked(func() error {
		return s.store.WithTx(ctx, func(tx storage.Store) error {
			old, err := tx.GetTransaction(ctx, id)
			if err != nil {
				return err
			}
			if _, err := s.adjuster.Adjust(ctx, tx, old.PaymentMethod, old.Amount, old.Type.Invert()); err != nil {
				return err
			}
			if _, err := s.adjuster.Adjust(ctx, tx, updated.PaymentMethod, updated.Amount, updated.Type); err != nil {
				return err
			}
			return tx.UpdateTransaction(ctx, updated)
		})
	})
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}

	s.publish(ctx, amqp.NewLedgerEvent(amqp.ActionUpdated, updated))
	s.log.InfoContext(ctx, "Transaction updated", transactionFields(updated).ToSlice()...)
	return nil
}

// DeleteTransaction reverses the effect of transaction id and removes it.
// Deleting a missing transaction succeeds without doing anything.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	var removed *core.Transaction
	err := s.locked(func() error {
		return s.store.WithTx(ctx, func(tx storage.Store) error {
			old, err := tx.GetTransaction(ctx, id)
			if errors.Is(err, core.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if _, err := s.adjuster.Adjust(ctx, tx, old.PaymentMethod, old.Amount, old.Type.Invert()); err != nil {
				return err
			}
			if err := tx.DeleteTransaction(ctx, id); err != nil {
				return err
			}
			removed = &old
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if removed == nil {
		s.log.DebugContext(ctx, "Delete of missing transaction ignored", "id", id)
		return nil
	}

	s.publish(ctx, amqp.NewLedgerEvent(amqp.ActionDeleted, *removed))
	s.log.InfoContext(ctx, "Transaction deleted", transactionFields(*removed).ToSlice()...)
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// ListTransactions returns the transactions matching f, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, f summary.Filter) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return summary.Apply(txs, f), nil
}

// AddAccount creates an account. Names must be unique because transactions
// reference accounts by name.
func (s *LedgerService) AddAccount(ctx context.Context, in core.AccountInput) (string, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return "", err
	}

	var acc core.Account
	err := s.locked(func() error {
		acc = in.Account(s.newID())
		return s.store.WithTx(ctx, func(tx storage.Store) error {
			existing, err := tx.FindAccountsByName(ctx, acc.Name)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return fmt.Errorf("%q: %w", acc.Name, core.ErrDuplicateAccount)
			}
			return tx.CreateAccount(ctx, acc)
		})
	})
	if err != nil {
		return "", fmt.Errorf("add account: %w", err)
	}

	s.log.InfoContext(ctx, "Account added", "id", acc.ID, "name", acc.Name, "currency", acc.Currency)
	return acc.ID, nil
}

// DeleteAccount removes an account. Transactions that name it are kept and
// simply stop affecting any balance.
func (s *LedgerService) DeleteAccount(ctx context.Context, id string) error {
	err := s.locked(func() error {
		return s.store.DeleteAccount(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.InfoContext(ctx, "Account deleted", "id", id)
	return nil
}

// ListAccounts returns every account, or only those of accountType when set.
func (s *LedgerService) ListAccounts(ctx context.Context, accountType core.AccountType) ([]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if accountType == "" {
		return accounts, nil
	}
	out := make([]core.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Type == accountType {
			out = append(out, a)
		}
	}
	return out, nil
}

// ResetAllData deletes every account and transaction. Callers are expected to
// have asked for confirmation.
func (s *LedgerService) ResetAllData(ctx context.Context) error {
	if err := s.locked(func() error { return s.store.DeleteAll(ctx) }); err != nil {
		return fmt.Errorf("reset data: %w", err)
	}
	s.publish(ctx, amqp.NewResetEvent())
	s.log.WarnContext(ctx, "All ledger data deleted")
	return nil
}

// Summary computes the dashboard figures for p from a fresh snapshot.
func (s *LedgerService) Summary(ctx context.Context, p summary.Period) (summary.Summary, error) {
	// Held so a write cannot slip between loading the snapshot and caching it.
	s.mu.Lock()
	defer s.mu.Unlock()

	key := p.String()
	if s.summaries != nil {
		if cached, ok := s.summaries.Get(key); ok {
			return cached, nil
		}
	}

	txs, accounts, err := s.snapshot(ctx)
	if err != nil {
		return summary.Summary{}, err
	}
	sum := summary.Compute(txs, accounts, p)

	if s.summaries != nil {
		s.summaries.Set(key, sum)
	}
	return sum, nil
}

// Periods lists the months that have transactions, newest first.
func (s *LedgerService) Periods(ctx context.Context) ([]summary.Period, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return summary.AvailablePeriods(txs), nil
}

func (s *LedgerService) Status(ctx context.Context) (Status, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("status: %w", err)
	}
	return Status{Backend: s.store.Describe(), Counts: counts}, nil
}

func (s *LedgerService) snapshot(ctx context.Context) ([]core.Transaction, []core.Account, error) {
	var (
		txs      []core.Transaction
		accounts []core.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load snapshot: %w", err)
	}
	return txs, accounts, nil
}

func (s *LedgerService) invalidate() {
	if s.summaries != nil {
		s.summaries.Clear()
	}
}

// locked runs fn while holding the write lock and clears cached summaries
// when it succeeds. Callers publish events after it returns, so a slow broker
// never holds up other writes or summaries.
func (s *LedgerService) locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.publisher == nil {
		s.log.DebugContext(ctx, "No publisher configured, skipping ledger event", "action", ev.Action)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		// The write is committed locally; the mirror catches up on the next event.
		s.log.LogOperationError(ctx, "Failed to publish ledger event", err, flog.OpSync, flog.ErrorTypeNetwork,
			flog.NewFields().With("action", ev.Action).With(flog.FieldTransactionID, ev.TransactionID))
	}
}

// Close closes the underlying store.
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func transactionFields(t core.Transaction) flog.LogFields {
	return flog.NewFields().WithTransaction(t.ID, string(t.Type), t.Category, t.Amount.String(), t.PaymentMethod)
}
