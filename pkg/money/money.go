// Package money provides currency-safe amounts for property transaction
// records. Values keep exact decimal precision so that tolerance matching
// against stored NUMERIC(10,2) amounts behaves like the database comparison;
// go-money handles minor-unit conversion and display. All imported workbooks
// are AUD-denominated.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// AUD is the ISO-4217 code for the Australian Dollar.
const AUD = "AUD"

// Tolerance is the absolute amount difference under which two records are
// considered the same transaction when matching by (property, date, amount).
var Tolerance = decimal.New(1, -2) // 0.01

// Money represents an AUD monetary value with exact decimal precision.
type Money struct {
	d decimal.Decimal
}

// New creates a Money value from cents (minor units).
func New(amountCents int64) *Money {
	fraction := gomoney.GetCurrency(AUD).Fraction
	return &Money{d: decimal.New(amountCents, -int32(fraction))}
}

// NewFromDecimal creates Money from a decimal value without rounding.
func NewFromDecimal(amount decimal.Decimal) *Money {
	return &Money{d: amount}
}

// NewFromFloat creates Money from a floating-point cell value.
func NewFromFloat(amount float64) *Money {
	return &Money{d: decimal.NewFromFloat(amount)}
}

// NewFromString parses a spreadsheet cell amount such as "450", "1,234.56"
// or "$1234.56".
func NewFromString(amount string) (*Money, error) {
	amount = strings.TrimSpace(amount)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, ",", "")

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return &Money{d: d}, nil
}

// Amount returns the amount rounded to cents.
func (m *Money) Amount() int64 {
	if m == nil {
		return 0
	}
	fraction := gomoney.GetCurrency(AUD).Fraction
	return m.d.Mul(decimal.New(1, int32(fraction))).Round(0).IntPart()
}

// ToDecimal returns the exact decimal value in dollars.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return m.d
}

// IsZero returns true if the amount is zero.
func (m *Money) IsZero() bool {
	return m == nil || m.d.IsZero()
}

// IsNegative returns true if the amount is less than zero.
func (m *Money) IsNegative() bool {
	return m != nil && m.d.IsNegative()
}

// Abs returns the absolute value.
func (m *Money) Abs() *Money {
	if m == nil {
		return New(0)
	}
	return &Money{d: m.d.Abs()}
}

// Equals returns true if both values carry the same amount in cents.
func (m *Money) Equals(other *Money) bool {
	return m.Amount() == other.Amount()
}

// WithinTolerance reports whether two amounts differ by less than Tolerance.
// Mirrors the ABS(amount - $n) < 0.01 matching used by the record store.
func (m *Money) WithinTolerance(other *Money) bool {
	diff := m.ToDecimal().Sub(other.ToDecimal()).Abs()
	return diff.LessThan(Tolerance)
}

// String returns the amount as a plain decimal string, e.g. "1234.56".
func (m *Money) String() string {
	return m.ToDecimal().StringFixed(2)
}

// Display returns a formatted string for logs, e.g. "$1,234.56".
func (m *Money) Display() string {
	if m == nil {
		return gomoney.New(0, AUD).Display()
	}
	return gomoney.New(m.Amount(), AUD).Display()
}
