package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a specific currency.
// Amount is stored as BIGINT minor units (kobo, 10^-2) to avoid floating
// point errors.
type Money struct {
	Amount   int64  // minor units
	Currency string // ISO 4217
}

// NewMoney creates a new Money instance from minor units.
func NewMoney(amount int64, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// ToDecimal converts the int64 minor units to a shopspring/decimal.Decimal
// in major units.
func (m Money) ToDecimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount).Div(decimal.NewFromInt(100))
}

// FromDecimal converts a decimal.Decimal in major units to int64 minor units.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}

// String returns the string representation of the money.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.ToDecimal().StringFixed(2), m.Currency)
}
