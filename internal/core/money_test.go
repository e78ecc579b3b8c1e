package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{".5", "0.5", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1.", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			want := decimal.RequireFromString(tc.out)
			if err != nil || !got.Equal(want) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %s", tc.in, got)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(decimal.RequireFromString("250"), USD); got != "$250.00" {
		t.Fatalf("unexpected USD format: %q", got)
	}
	if got := FormatMoney(decimal.RequireFromString("-12.5"), USD); got != "-$12.50" {
		t.Fatalf("unexpected negative format: %q", got)
	}
}
