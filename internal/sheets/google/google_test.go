package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"findash/internal/core"
)

type recordedCall struct {
	method string
	path   string
	body   string
}

// fakeSheets answers the Values endpoints used by Client.
type fakeSheets struct {
	mu       sync.Mutex
	columnA  [][]interface{}
	calls    []recordedCall
	getCount int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{method: r.Method, path: r.URL.Path, body: string(body)})

	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet {
		f.getCount++
		_ = json.NewEncoder(w).Encode(map[string]any{"values": f.columnA})
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeSheets) writes() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return newClient(svc, "sheet-id", "")
}

func sample(id string) core.Transaction {
	return core.Transaction{
		ID:            id,
		Date:          core.NewDate(2024, 6, 1),
		Type:          core.Income,
		Category:      "Maaş",
		Amount:        decimal.NewFromInt(1000),
		PaymentMethod: "Ziraat Bankası",
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || !strings.Contains(err.Error(), "spreadsheet") {
		t.Fatalf("expected missing spreadsheet error, got %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "abc"})
	if err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
	// The message must name the variables the config actually reads.
	for _, env := range []string{"GOOGLE_CREDENTIALS_JSON", "GOOGLE_APPLICATION_CREDENTIALS"} {
		if !strings.Contains(err.Error(), env) {
			t.Errorf("error %q does not mention %s", err, env)
		}
	}
}

func TestClient_UpsertExistingAndNewRows(t *testing.T) {
	fake := &fakeSheets{columnA: [][]interface{}{{"ID"}, {"t1"}, {"t2"}}}
	c := newTestClient(t, fake)
	ctx := context.Background()

	if err := c.Upsert(ctx, sample("t2")); err != nil {
		t.Fatalf("Upsert(t2): %v", err)
	}
	if err := c.Upsert(ctx, sample("t9")); err != nil {
		t.Fatalf("Upsert(t9): %v", err)
	}
	if err := c.Upsert(ctx, sample("t10")); err != nil {
		t.Fatalf("Upsert(t10): %v", err)
	}

	writes := fake.writes()
	if len(writes) != 3 {
		t.Fatalf("got %d writes, want 3", len(writes))
	}
	for i, want := range []string{"Ledger!A3:G3", "Ledger!A4:G4", "Ledger!A5:G5"} {
		if writes[i].method != http.MethodPut || !strings.HasSuffix(writes[i].path, want) {
			t.Errorf("write %d = %s %s, want PUT ...%s", i, writes[i].method, writes[i].path, want)
		}
	}
	if !strings.Contains(writes[1].body, "Ziraat Bankası") {
		t.Errorf("row body missing payment method: %s", writes[1].body)
	}
	// The row index is cached between calls.
	if fake.getCount != 1 {
		t.Errorf("column A read %d times, want 1", fake.getCount)
	}
}

func TestClient_Remove(t *testing.T) {
	fake := &fakeSheets{columnA: [][]interface{}{{"ID"}, {"t1"}, {"t2"}}}
	c := newTestClient(t, fake)
	ctx := context.Background()

	if err := c.Remove(ctx, "unknown"); err != nil {
		t.Fatalf("Remove(unknown): %v", err)
	}
	if err := c.Remove(ctx, "t1"); err != nil {
		t.Fatalf("Remove(t1): %v", err)
	}

	writes := fake.writes()
	if len(writes) != 1 {
		t.Fatalf("got %d writes, want 1", len(writes))
	}
	if writes[0].method != http.MethodPost || !strings.HasSuffix(writes[0].path, "Ledger!A2:G2:clear") {
		t.Errorf("unexpected clear call: %s %s", writes[0].method, writes[0].path)
	}
}

func TestClient_ReplaceAll(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	if err := c.ReplaceAll(context.Background(), []core.Transaction{sample("a"), sample("b")}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	writes := fake.writes()
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}
	if !strings.HasSuffix(writes[0].path, "Ledger!A:G:clear") {
		t.Errorf("first call should clear the sheet, got %s", writes[0].path)
	}
	if !strings.HasSuffix(writes[1].path, "Ledger!A1:G3") || !strings.Contains(writes[1].body, "Payment Method") {
		t.Errorf("unexpected rewrite call: %s %s", writes[1].path, writes[1].body)
	}
}

func TestClient_NotInitialized(t *testing.T) {
	c := &Client{}
	if err := c.Upsert(context.Background(), sample("x")); err == nil {
		t.Error("expected error without a service")
	}
}
