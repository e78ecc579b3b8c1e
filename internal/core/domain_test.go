package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTxTypeSignAndInvert(t *testing.T) {
	if !Income.Sign().Equal(decimal.NewFromInt(1)) || !Expense.Sign().Equal(decimal.NewFromInt(-1)) {
		t.Fatalf("unexpected signs")
	}
	if Income.Invert() != Expense || Expense.Invert() != Income {
		t.Fatalf("invert is not symmetric")
	}
	if ty, ok := ParseTxType("gider"); !ok || ty != Expense {
		t.Fatalf("expected Turkish label to parse, got %q", ty)
	}
	if _, ok := ParseTxType("transfer"); ok {
		t.Fatalf("expected unknown type to be rejected")
	}
}

func TestCurrencyRate(t *testing.T) {
	cases := map[Currency]int64{TRY: 1, USD: 30, EUR: 33, "GBP": 1}
	for cur, want := range cases {
		if !cur.Rate().Equal(decimal.NewFromInt(want)) {
			t.Fatalf("%s: expected rate %d, got %s", cur, want, cur.Rate())
		}
	}
}

func TestParseAccountType(t *testing.T) {
	cases := map[string]AccountType{
		"":            Bank,
		"Banka":       Bank,
		"credit card": CreditCard,
		"Kredi Kartı": CreditCard,
		"Nakit":       Cash,
		"Yemek Kartı": MealCard,
		"Meal Card":   MealCard,
	}
	for in, want := range cases {
		if got := ParseAccountType(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-05-01", "2024-05-01T00:00:00", "2024-05-01T10:11:12Z"} {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if d.String() != "2024-05-01" || d.Period() != "2024-05" {
			t.Fatalf("%q: parsed to %s", in, d)
		}
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatalf("expected malformed date to fail")
	}
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Type:          Expense,
		Amount:        decimal.RequireFromString("10.50"),
		Category:      "Yemek",
		Date:          NewDate(2025, 1, 1),
		PaymentMethod: "Cüzdan",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []TransactionInput{
		{Type: "Transfer", Amount: decimal.NewFromInt(1), Category: "c", Date: NewDate(2025, 1, 1), PaymentMethod: "p"},
		{Type: Income, Amount: decimal.Zero, Category: "c", Date: NewDate(2025, 1, 1), PaymentMethod: "p"},
		{Type: Income, Amount: decimal.NewFromInt(-5), Category: "c", Date: NewDate(2025, 1, 1), PaymentMethod: "p"},
		{Type: Income, Amount: decimal.NewFromInt(1), Category: "", Date: NewDate(2025, 1, 1), PaymentMethod: "p"},
		{Type: Income, Amount: decimal.NewFromInt(1), Category: "c", Date: Date{Time: time.Time{}}, PaymentMethod: "p"},
		{Type: Income, Amount: decimal.NewFromInt(1), Category: "c", Date: NewDate(2025, 1, 1), PaymentMethod: ""},
	}
	for i, in := range bads {
		err := in.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected ErrValidation, got %v", i, err)
		}
	}
}

func TestAccountInputValidate(t *testing.T) {
	in := AccountInput{Name: "  Sodexo ", Balance: decimal.NewFromInt(450), Currency: "try", Type: "Yemek Kartı"}
	in.Normalize()
	if err := in.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if in.Name != "Sodexo" || in.Currency != TRY || in.Type != MealCard {
		t.Fatalf("unexpected normalized input: %+v", in)
	}

	bad := AccountInput{Name: "x", Currency: "GBP", Type: Bank}
	var verr *ValidationError
	if err := bad.Validate(); !errors.As(err, &verr) || verr.Fields[0].Field != "currency" {
		t.Fatalf("expected currency validation error, got %v", err)
	}
}
