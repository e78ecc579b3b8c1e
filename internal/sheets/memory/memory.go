// Package memory is an in-process LedgerMirror used by tests and by the
// worker when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"findash/internal/core"
	"findash/internal/sheets"
)

type Mirror struct {
	mu    sync.Mutex
	order []string
	rows  map[string]core.Transaction
}

var _ sheets.LedgerMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{rows: make(map[string]core.Transaction)}
}

func (m *Mirror) Upsert(_ context.Context, t core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.ID]; !ok {
		m.order = append(m.order, t.ID)
	}
	m.rows[t.ID] = t
	return nil
}

func (m *Mirror) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return nil
	}
	delete(m.rows, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Mirror) ReplaceAll(_ context.Context, txs []core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string]core.Transaction, len(txs))
	m.order = m.order[:0]
	for _, t := range txs {
		if _, ok := m.rows[t.ID]; !ok {
			m.order = append(m.order, t.ID)
		}
		m.rows[t.ID] = t
	}
	return nil
}

// Rows returns the mirrored transactions in row order.
func (m *Mirror) Rows() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Transaction, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rows[id])
	}
	return out
}
