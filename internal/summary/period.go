// Package summary computes dashboard figures from ledger snapshots.
//
// Every function here is pure: the same transactions, accounts and period
// always produce the same result.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"findash/internal/core"
)

// Period selects a calendar month. The zero value selects all time.
type Period struct {
	Year  int
	Month time.Month
}

func AllTime() Period { return Period{} }

func Month(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// ParsePeriod reads "YYYY-MM". Empty input and "all" select all time.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllTime(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("period %q: expected YYYY-MM: %w", s, core.ErrValidation)
	}
	return Month(t.Year(), t.Month()), nil
}

func (p Period) IsAllTime() bool { return p.Year == 0 }

func (p Period) String() string {
	if p.IsAllTime() {
		return "all"
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Contains reports whether t falls in the period. Transactions without a
// usable date only belong to the all-time view.
func (p Period) Contains(t core.Transaction) bool {
	if p.IsAllTime() {
		return true
	}
	if !t.HasDate() {
		return false
	}
	return t.Date.Year() == p.Year && t.Date.Month() == p.Month
}

// FilterPeriod keeps the transactions in p, preserving order.
func FilterPeriod(txs []core.Transaction, p Period) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if p.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// AvailablePeriods lists the distinct months that have transactions, newest first.
func AvailablePeriods(txs []core.Transaction) []Period {
	seen := make(map[Period]bool)
	var out []Period
	for _, t := range txs {
		if !t.HasDate() {
			continue
		}
		p := Month(t.Date.Year(), t.Date.Month())
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}
