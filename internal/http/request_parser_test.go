package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

func parserFor(body string) *RequestBodyParser {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return NewRequestBodyParser(req)
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		key      string
		want     string
		wantJSON bool
	}{
		{"json string", `{"category":" Kira "}`, "category", "Kira", true},
		{"json number", `{"amount":12.5}`, "amount", "12.5", true},
		{"form value", "category=Yemek&amount=3", "category", "Yemek", false},
		{"control characters stripped", "description=a%00b", "description", "ab", false},
		{"missing key", `{"amount":1}`, "category", "", true},
		{"empty body", "", "category", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parserFor(tt.body)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
		})
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	p := parserFor(`{"amount":`)
	err := p.Parse()
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("Parse() error = %v, want ErrValidation", err)
	}
	// Parse is memoised.
	if err2 := p.Parse(); err2 != err {
		t.Errorf("second Parse() = %v, want %v", err2, err)
	}
}

func TestParseTransactionInput(t *testing.T) {
	now := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

	in, err := ParseTransactionInput(parserFor(`{"type":"gider","amount":"12,345","category":"Yemek","payment_method":"Sodexo","date":"2024-03-01"}`), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Type != core.Expense {
		t.Errorf("Type = %q, want Expense", in.Type)
	}
	if !in.Amount.Equal(decimal.RequireFromString("12.35")) {
		t.Errorf("Amount = %s, want 12.35", in.Amount)
	}
	if in.Date.String() != "2024-03-01" {
		t.Errorf("Date = %s", in.Date)
	}

	in, err = ParseTransactionInput(parserFor("type=Income&amount=5&category=Maa%C5%9F&payment_method=Nakit"), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Date.String() != "2024-03-09" {
		t.Errorf("default Date = %s, want 2024-03-09", in.Date)
	}

	_, err = ParseTransactionInput(parserFor(`{"type":"transfer","amount":"abc","date":"yesterday"}`), now)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"type", "amount", "date"} {
		if !fields[want] {
			t.Errorf("missing field error for %q in %v", want, verr.Fields)
		}
	}
}

func TestParseAccountInput(t *testing.T) {
	in, err := ParseAccountInput(parserFor(`{"name":"Cüzdan","balance":"-12,5","currency":"try","account_type":"Nakit"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in.Balance.Equal(decimal.RequireFromString("-12.5")) {
		t.Errorf("Balance = %s", in.Balance)
	}
	in.Normalize()
	if in.Currency != core.TRY || in.Type != core.Cash {
		t.Errorf("normalized = %+v", in)
	}

	in, err = ParseAccountInput(parserFor(`{"name":"Yeni"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in.Balance.IsZero() {
		t.Errorf("default balance = %s, want 0", in.Balance)
	}

	if _, err := ParseAccountInput(parserFor(`{"name":"X","balance":"lots"}`)); !errors.Is(err, core.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{
		"period":   {"2024-05"},
		"type":     {"Gelir"},
		"category": {"Maaş"},
		"q":        {"  bonus "},
		"from":     {"2024-05-01"},
		"to":       {"2024-05-15"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Period.String() != "2024-05" || f.Type != core.Income || f.Category != "Maaş" || f.Query != "bonus" {
		t.Errorf("unexpected filter %+v", f)
	}
	if f.From.String() != "2024-05-01" || f.To.String() != "2024-05-15" {
		t.Errorf("unexpected bounds %s..%s", f.From, f.To)
	}

	f, err = ParseFilter(url.Values{})
	if err != nil || !f.Period.IsAllTime() {
		t.Errorf("empty query: filter %+v, err %v", f, err)
	}

	_, err = ParseFilter(url.Values{"period": {"May"}, "from": {"bad"}})
	var verr *core.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Errorf("error = %v, want two field errors", err)
	}
}
