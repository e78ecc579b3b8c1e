package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// Action names what happened to the ledger.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	// ActionReset is published after every row was removed or replaced.
	ActionReset Action = "reset"
)

// TransactionSnapshot is the transaction as it was when the event fired.
// Deleted rows are gone from the database by the time a consumer runs, so the
// event carries what a mirror needs.
type TransactionSnapshot struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	PaymentMethod string          `json:"payment_method"`
}

// LedgerEvent is published after a ledger mutation commits.
type LedgerEvent struct {
	Action        Action               `json:"action"`
	TransactionID string               `json:"transaction_id,omitempty"`
	Transaction   *TransactionSnapshot `json:"transaction,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewLedgerEvent creates an event for a single transaction.
func NewLedgerEvent(action Action, t core.Transaction) *LedgerEvent {
	date := t.Date.String()
	if date == "" {
		date = t.DateRaw
	}
	return &LedgerEvent{
		Action:        action,
		TransactionID: t.ID,
		Transaction: &TransactionSnapshot{
			ID:            t.ID,
			Date:          date,
			Type:          string(t.Type),
			Category:      t.Category,
			Amount:        t.Amount,
			Description:   t.Description,
			PaymentMethod: t.PaymentMethod,
		},
		Timestamp: time.Now(),
	}
}

// NewResetEvent creates an event telling consumers to drop everything they mirror.
func NewResetEvent() *LedgerEvent {
	return &LedgerEvent{Action: ActionReset, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes a message body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Transaction converts the snapshot back into a domain transaction.
func (s *TransactionSnapshot) Transaction() core.Transaction {
	t := core.Transaction{
		ID:            s.ID,
		Category:      s.Category,
		Amount:        s.Amount,
		Description:   s.Description,
		PaymentMethod: s.PaymentMethod,
		Type:          core.TxType(s.Type),
	}
	if d, err := core.ParseDate(s.Date); err == nil {
		t.Date = d
	} else {
		t.DateRaw = s.Date
	}
	return t
}
