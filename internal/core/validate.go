package core

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// TransactionInput is the caller supplied part of a transaction.
type TransactionInput struct {
	Type          TxType          `validate:"required,oneof=Income Expense"`
	Amount        decimal.Decimal `validate:"gt=0"`
	Category      string          `validate:"required,max=100"`
	Date          Date            `validate:"required"`
	Description   string          `validate:"max=500"`
	PaymentMethod string          `validate:"required,max=100"`
}

// AccountInput is the caller supplied part of an account.
type AccountInput struct {
	Name     string          `validate:"required,max=100"`
	Balance  decimal.Decimal
	Currency Currency        `validate:"required,oneof=TRY USD EUR"`
	Type     AccountType     `validate:"required,oneof=Bank 'Credit Card' Cash 'Meal Card'"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			return d.InexactFloat64()
		}, decimal.Decimal{})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(Date)
			if !ok {
				return nil
			}
			return d.Time
		}, Date{})
	})
	return validate
}

// Normalize trims free-text fields and rounds the amount to cents in place,
// so an amount that rounds to zero fails validation instead of being stored
// as 0.
func (in *TransactionInput) Normalize() {
	in.Amount = in.Amount.Round(2)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
}

func (in TransactionInput) Validate() error {
	return check(in)
}

// Transaction builds the stored form of the input under the given id.
func (in TransactionInput) Transaction(id string) Transaction {
	return Transaction{
		ID:            id,
		Date:          in.Date,
		Type:          in.Type,
		Category:      in.Category,
		Amount:        in.Amount,
		Description:   in.Description,
		PaymentMethod: in.PaymentMethod,
	}
}

func (in *AccountInput) Normalize() {
	in.Balance = in.Balance.Round(2)
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = Currency(strings.ToUpper(strings.TrimSpace(string(in.Currency))))
	if in.Type == "" {
		in.Type = Bank
	} else {
		in.Type = ParseAccountType(string(in.Type))
	}
}

func (in AccountInput) Validate() error {
	return check(in)
}

func (in AccountInput) Account(id string) Account {
	return Account{
		ID:       id,
		Name:     in.Name,
		Balance:  in.Balance,
		Currency: in.Currency,
		Type:     in.Type,
	}
}

func check(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fieldName(fe.Field()), fieldMessage(fe))
	}
	return verr.Err()
}

func fieldName(s string) string {
	switch s {
	case "PaymentMethod":
		return "payment_method"
	case "Type":
		return "type"
	}
	return strings.ToLower(s)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid (" + fe.Tag() + ")"
}
