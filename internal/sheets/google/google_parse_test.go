package google

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

func TestBuildRowIndex(t *testing.T) {
	now := time.Now()
	values := [][]interface{}{
		{"ID", "Date"},
		{"t1"},
		{},
		{"t3"},
		{"t1"},
	}

	idx := buildRowIndex(values, now)

	if got := idx.rows["t1"]; got != 2 {
		t.Errorf("row of t1 = %d, want 2", got)
	}
	if got := idx.rows["t3"]; got != 4 {
		t.Errorf("row of t3 = %d, want 4", got)
	}
	if idx.next != 6 {
		t.Errorf("next = %d, want 6", idx.next)
	}
	if _, ok := idx.rows["ID"]; ok {
		t.Error("header must not be indexed")
	}
}

func TestBuildRowIndex_EmptySheet(t *testing.T) {
	idx := buildRowIndex(nil, time.Now())
	if idx.next != 2 || len(idx.rows) != 0 {
		t.Fatalf("unexpected index for empty sheet: %+v", idx)
	}
}

func TestRowIndexValidity(t *testing.T) {
	var nilIdx *rowIndex
	if nilIdx.valid(time.Now()) {
		t.Error("nil index must be invalid")
	}

	now := time.Now()
	idx := &rowIndex{loadedAt: now}
	if !idx.valid(now.Add(rowIndexTTL / 2)) {
		t.Error("fresh index should be valid")
	}
	if idx.valid(now.Add(rowIndexTTL + time.Second)) {
		t.Error("stale index should be invalid")
	}
}

func TestRowValues(t *testing.T) {
	row := rowValues(core.Transaction{
		ID:            "t1",
		Date:          core.NewDate(2024, 2, 29),
		Type:          core.Expense,
		Category:      "Yemek",
		Amount:        decimal.RequireFromString("12.50"),
		PaymentMethod: "Sodexo",
	})
	if len(row) != len(header) {
		t.Fatalf("row has %d cells, header %d", len(row), len(header))
	}
	if row[1] != "2024-02-29" || row[4] != 12.5 {
		t.Errorf("unexpected row: %v", row)
	}

	raw := rowValues(core.Transaction{ID: "t2", DateRaw: "31/02/2024"})
	if raw[1] != "31/02/2024" {
		t.Errorf("raw date not kept: %v", raw)
	}
}
