package summary

import (
	"strings"

	"findash/internal/core"
)

// Filter narrows a transaction list. Zero fields do not filter.
type Filter struct {
	Period   Period
	Type     core.TxType
	Category string
	// Query matches category, description and payment method, ignoring case.
	Query string
	// From and To bound the date, both inclusive.
	From core.Date
	To   core.Date
}

func (f Filter) Match(t core.Transaction) bool {
	if !f.Period.Contains(t) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
		return false
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		if !t.HasDate() {
			return false
		}
		if !f.From.IsZero() && t.Date.Before(f.From.Time) {
			return false
		}
		if !f.To.IsZero() && t.Date.After(f.To.Time) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hay := strings.ToLower(t.Category + "\x00" + t.Description + "\x00" + t.PaymentMethod)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// Apply returns the transactions matching f in their original order.
func Apply(txs []core.Transaction, f Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
