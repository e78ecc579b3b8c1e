package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TxType = "Income"
	Expense TxType = "Expense"
)

const (
	TRY Currency = "TRY"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

const (
	Bank       AccountType = "Bank"
	CreditCard AccountType = "Credit Card"
	Cash       AccountType = "Cash"
	MealCard   AccountType = "Meal Card"
)

// ReferenceCurrency is the currency every aggregated amount is expressed in.
const ReferenceCurrency = TRY

type (
	TxType      string
	Currency    string
	AccountType string

	Date struct {
		time.Time
	}

	Account struct {
		ID       string
		Name     string
		Balance  decimal.Decimal
		Currency Currency
		Type     AccountType
	}

	Transaction struct {
		ID   string
		Date Date
		// DateRaw holds the stored text when it could not be parsed as a date.
		DateRaw       string
		Type          TxType
		Category      string
		Amount        decimal.Decimal
		Description   string
		PaymentMethod string
	}
)

var referenceRates = map[Currency]decimal.Decimal{
	USD: decimal.NewFromInt(30),
	EUR: decimal.NewFromInt(33),
}

// legacyAccountTypes maps labels written by earlier versions of the app.
var legacyAccountTypes = map[string]AccountType{
	"banka":       Bank,
	"kredi kartı": CreditCard,
	"nakit":       Cash,
	"yemek kartı": MealCard,
}

// Sign returns +1 for income and -1 for everything else.
func (t TxType) Sign() decimal.Decimal {
	if t == Income {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// Invert returns the type whose effect cancels t.
func (t TxType) Invert() TxType {
	if t == Income {
		return Expense
	}
	return Income
}

func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// ParseTxType accepts the canonical names plus the Turkish UI labels.
func ParseTxType(s string) (TxType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "gelir":
		return Income, true
	case "expense", "gider":
		return Expense, true
	}
	return "", false
}

// Rate is the fixed multiplier converting an amount in c to the reference currency.
func (c Currency) Rate() decimal.Decimal {
	if r, ok := referenceRates[c]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

func (c Currency) IsValid() bool {
	switch c {
	case TRY, USD, EUR:
		return true
	}
	return false
}

func (a AccountType) IsValid() bool {
	switch a {
	case Bank, CreditCard, Cash, MealCard:
		return true
	}
	return false
}

// ParseAccountType normalizes a stored or user supplied account type.
// Empty values read as Bank, the default older databases were migrated with.
func ParseAccountType(s string) AccountType {
	s = strings.TrimSpace(s)
	if s == "" {
		return Bank
	}
	for _, t := range AccountTypes() {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	if t, ok := legacyAccountTypes[strings.ToLower(s)]; ok {
		return t
	}
	return AccountType(s)
}

func AccountTypes() []AccountType {
	return []AccountType{Bank, CreditCard, Cash, MealCard}
}

func Currencies() []Currency {
	return []Currency{TRY, USD, EUR}
}

// DefaultCategories is the category list offered to the user.
func DefaultCategories() []string {
	return []string{"Maaş", "Kira", "Eğlence", "Alışveriş", "Kıyafet", "Yemek", "Sağlık", "Seyahat"}
}

// ReferenceBalance is the account balance converted to the reference currency.
func (a Account) ReferenceBalance() decimal.Decimal {
	return a.Balance.Mul(a.Currency.Rate())
}

// Effect is the signed change the transaction applies to its account.
func (t Transaction) Effect() decimal.Decimal {
	return t.Amount.Mul(t.Type.Sign())
}

// HasDate reports whether the stored date could be parsed.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// ParseDate accepts plain dates and the ISO timestamps older versions stored.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), nil
		}
		lastErr = err
	}
	return Date{}, lastErr
}

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Period returns the YYYY-MM month the date falls in.
func (d Date) Period() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01")
}
