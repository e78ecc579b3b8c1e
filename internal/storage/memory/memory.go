// Package memory provides a map-backed store used by tests and demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/storage"
)

type accountEntry struct {
	seq int64
	acc core.Account
}

type transactionEntry struct {
	seq int64
	tx  core.Transaction
}

type state struct {
	accounts     map[string]accountEntry
	transactions map[string]transactionEntry
	seq          int64
}

func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[string]accountEntry, len(s.accounts)),
		transactions: make(map[string]transactionEntry, len(s.transactions)),
		seq:          s.seq,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	return c
}

// Store keeps accounts and transactions in memory.
type Store struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
}

func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		st: &state{
			accounts:     make(map[string]accountEntry),
			transactions: make(map[string]transactionEntry),
		},
	}
}

func (s *Store) lock() func() {
	// The transactional view already holds the lock of its owner.
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Describe() string { return "memory" }

func (s *Store) Close() error { return nil }

// WithTx runs fn against a copy of the current state and swaps it in when fn
// succeeds. The store stays locked for the duration of fn.
func (s *Store) WithTx(ctx context.Context, fn func(storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &Store{mu: s.mu, st: s.st.clone(), inTx: true}
	if err := fn(view); err != nil {
		return err
	}
	s.st = view.st
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) error {
	defer s.lock()()
	if _, ok := s.st.accounts[a.ID]; ok {
		return fmt.Errorf("create account: id %s already exists", a.ID)
	}
	s.st.seq++
	s.st.accounts[a.ID] = accountEntry{seq: s.st.seq, acc: a}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (core.Account, error) {
	defer s.lock()()
	e, ok := s.st.accounts[id]
	if !ok {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return e.acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	defer s.lock()()
	return s.accountsWhere(func(core.Account) bool { return true }), nil
}

func (s *Store) FindAccountsByName(ctx context.Context, name string) ([]core.Account, error) {
	defer s.lock()()
	return s.accountsWhere(func(a core.Account) bool { return a.Name == name }), nil
}

func (s *Store) accountsWhere(keep func(core.Account) bool) []core.Account {
	entries := make([]accountEntry, 0, len(s.st.accounts))
	for _, e := range s.st.accounts {
		if keep(e.acc) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]core.Account, len(entries))
	for i, e := range entries {
		out[i] = e.acc
	}
	return out
}

func (s *Store) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	defer s.lock()()
	e, ok := s.st.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	e.acc.Balance = balance
	s.st.accounts[id] = e
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.st.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	delete(s.st.accounts, id)
	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) error {
	defer s.lock()()
	if _, ok := s.st.transactions[t.ID]; ok {
		return fmt.Errorf("create transaction: id %s already exists", t.ID)
	}
	s.st.seq++
	s.st.transactions[t.ID] = transactionEntry{seq: s.st.seq, tx: t}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	defer s.lock()()
	e, ok := s.st.transactions[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return e.tx, nil
}

// ListTransactions orders by stored date text descending, then insertion order,
// matching the SQL backends.
func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	defer s.lock()()
	entries := make([]transactionEntry, 0, len(s.st.transactions))
	for _, e := range s.st.transactions {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		di, dj := storedDate(entries[i].tx), storedDate(entries[j].tx)
		if di != dj {
			return di > dj
		}
		return entries[i].seq < entries[j].seq
	})
	out := make([]core.Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.tx
	}
	return out, nil
}

func storedDate(t core.Transaction) string {
	if t.HasDate() {
		return t.Date.String()
	}
	return t.DateRaw
}

func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	defer s.lock()()
	e, ok := s.st.transactions[t.ID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", t.ID, core.ErrNotFound)
	}
	e.tx = t
	s.st.transactions[t.ID] = e
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	defer s.lock()()
	if _, ok := s.st.transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	delete(s.st.transactions, id)
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	defer s.lock()()
	s.st.accounts = make(map[string]accountEntry)
	s.st.transactions = make(map[string]transactionEntry)
	return nil
}

func (s *Store) Counts(ctx context.Context) (storage.Counts, error) {
	defer s.lock()()
	return storage.Counts{
		Accounts:     int64(len(s.st.accounts)),
		Transactions: int64(len(s.st.transactions)),
	}, nil
}

var _ storage.Store = (*Store)(nil)
