package memory

import (
	"context"
	"testing"

	"findash/internal/core"
)

func TestMirror(t *testing.T) {
	ctx := context.Background()
	m := New()

	_ = m.Upsert(ctx, core.Transaction{ID: "a", Category: "Kira"})
	_ = m.Upsert(ctx, core.Transaction{ID: "b", Category: "Yemek"})
	_ = m.Upsert(ctx, core.Transaction{ID: "a", Category: "Sağlık"})

	rows := m.Rows()
	if len(rows) != 2 || rows[0].Category != "Sağlık" || rows[1].ID != "b" {
		t.Fatalf("unexpected rows after upsert: %+v", rows)
	}

	if err := m.Remove(ctx, "missing"); err != nil {
		t.Fatalf("Remove(missing) = %v", err)
	}
	_ = m.Remove(ctx, "a")
	if rows := m.Rows(); len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("unexpected rows after remove: %+v", rows)
	}

	_ = m.ReplaceAll(ctx, []core.Transaction{{ID: "x"}, {ID: "y"}})
	if rows := m.Rows(); len(rows) != 2 || rows[0].ID != "x" {
		t.Fatalf("unexpected rows after replace: %+v", rows)
	}
}
