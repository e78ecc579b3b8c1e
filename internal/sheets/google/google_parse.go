package google

import (
	"fmt"
	"strings"
	"time"

	"findash/internal/core"
)

var header = []string{"ID", "Date", "Type", "Category", "Amount", "Description", "Payment Method"}

// lastColumn is the column letter of the last header cell.
const lastColumn = "G"

func headerValues() []any {
	out := make([]any, len(header))
	for i, h := range header {
		out[i] = h
	}
	return out
}

func rowValues(t core.Transaction) []any {
	date := t.Date.String()
	if date == "" {
		date = t.DateRaw
	}
	return []any{
		t.ID,
		date,
		string(t.Type),
		t.Category,
		t.Amount.InexactFloat64(),
		t.Description,
		t.PaymentMethod,
	}
}

type rowIndex struct {
	rows     map[string]int
	next     int
	loadedAt time.Time
}

func (r *rowIndex) valid(now time.Time) bool {
	return r != nil && now.Sub(r.loadedAt) < rowIndexTTL
}

// buildRowIndex maps ids in column A to 1-based sheet rows. Row 1 is the
// header; blank rows are skipped but still counted.
func buildRowIndex(values [][]interface{}, now time.Time) *rowIndex {
	idx := &rowIndex{rows: make(map[string]int), next: 2, loadedAt: now}
	for i, row := range values {
		sheetRow := i + 1
		if sheetRow+1 > idx.next {
			idx.next = sheetRow + 1
		}
		if i == 0 || len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(fmt.Sprint(row[0]))
		if id == "" || strings.EqualFold(id, header[0]) {
			continue
		}
		if _, dup := idx.rows[id]; !dup {
			idx.rows[id] = sheetRow
		}
	}
	return idx
}
