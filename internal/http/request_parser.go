package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/summary"
)

// maxBodyBytes bounds request bodies read by RequestBodyParser.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON or form-encoded body once and exposes its
// fields by name.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like JSON, else as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("malformed JSON body: %w", core.ErrValidation)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	if p.err != nil {
		p.err = fmt.Errorf("malformed form body: %w", core.ErrValidation)
	}
	return p.err
}

// Get returns a sanitized string value, or "" when the field is absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether the field was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseTransactionInput reads a transaction from the body. Every field
// problem is reported together. An empty date means today.
func ParseTransactionInput(p *RequestBodyParser, now time.Time) (core.TransactionInput, error) {
	if err := p.Parse(); err != nil {
		return core.TransactionInput{}, err
	}

	verr := &core.ValidationError{}
	in := core.TransactionInput{
		Category:      p.Get("category"),
		Description:   p.Get("description"),
		PaymentMethod: p.Get("payment_method"),
	}

	if raw := p.Get("type"); raw != "" {
		t, ok := core.ParseTxType(raw)
		if !ok {
			verr.Add("type", "must be one of Income Expense")
		}
		in.Type = t
	}

	if raw := p.Get("amount"); raw != "" {
		amount, err := core.ParseAmount(raw)
		if err != nil {
			verr.Add("amount", "must be a positive number")
		}
		in.Amount = amount
	}

	if raw := p.Get("date"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			verr.Add("date", "must be a date in YYYY-MM-DD format")
		}
		in.Date = d
	} else {
		in.Date = core.DateOf(now)
	}

	if err := verr.Err(); err != nil {
		return in, err
	}
	return in, nil
}

// ParseAccountInput reads an account from the body. A missing balance is 0.
func ParseAccountInput(p *RequestBodyParser) (core.AccountInput, error) {
	if err := p.Parse(); err != nil {
		return core.AccountInput{}, err
	}

	verr := &core.ValidationError{}
	in := core.AccountInput{
		Name:     p.Get("name"),
		Currency: core.Currency(p.Get("currency")),
		Type:     core.AccountType(p.Get("account_type")),
		Balance:  decimal.Zero,
	}
	if raw := strings.ReplaceAll(p.Get("balance"), ",", "."); raw != "" {
		b, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add("balance", "must be a number")
		} else {
			in.Balance = b.Round(2)
		}
	}

	if err := verr.Err(); err != nil {
		return in, err
	}
	return in, nil
}

// ParseFilter builds a transaction filter from query parameters.
func ParseFilter(q url.Values) (summary.Filter, error) {
	var f summary.Filter
	verr := &core.ValidationError{}

	period, err := summary.ParsePeriod(q.Get("period"))
	if err != nil {
		verr.Add("period", "must be YYYY-MM or all")
	}
	f.Period = period

	if raw := strings.TrimSpace(q.Get("type")); raw != "" {
		t, ok := core.ParseTxType(raw)
		if !ok {
			verr.Add("type", "must be one of Income Expense")
		}
		f.Type = t
	}

	f.Category = sanitizeInput(q.Get("category"))
	f.Query = sanitizeInput(q.Get("q"))

	for _, bound := range []struct {
		key string
		dst *core.Date
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := strings.TrimSpace(q.Get(bound.key))
		if raw == "" {
			continue
		}
		d, err := core.ParseDate(raw)
		if err != nil {
			verr.Add(bound.key, "must be a date in YYYY-MM-DD format")
			continue
		}
		*bound.dst = d
	}

	if err := verr.Err(); err != nil {
		return f, err
	}
	return f, nil
}
