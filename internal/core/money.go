// Package core provides money parsing and handling utilities.
//
// This file contains the Money value used for every amount in the ledger,
// parsing of user-entered amounts and display formatting.
package core

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the ledger's single implicit currency.
type Money struct {
	amount decimal.Decimal
}

// Bounds on accepted amounts. They are checked against the coefficient and
// exponent without expanding the value, so inputs like "1e9999999" are
// rejected before any arithmetic touches them.
const (
	maxIntegerDigits  = 15
	maxFractionDigits = 8
)

// Zero is the additive identity.
var Zero = Money{}

// NewMoney wraps an exact decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromFloat converts a float amount, rejecting NaN and infinities.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, ErrInvalidAmount
	}
	return Money{amount: decimal.NewFromFloat(f)}, nil
}

// ParseMoney converts a user-entered amount to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// surrounding whitespace. The result must be strictly positive; empty input,
// non-numeric input, zero and negative values all return ErrInvalidAmount,
// as do amounts beyond 15 integer digits or 8 fractional digits.
//
// Examples:
//   ParseMoney("35.50") -> 35.5, nil
//   ParseMoney("35,50") -> 35.5, nil
//   ParseMoney("0")     -> ErrInvalidAmount
//   ParseMoney("-5")    -> ErrInvalidAmount
//   ParseMoney("1e400") -> ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m := Money{amount: d}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// Validate returns ErrInvalidAmount unless m is strictly positive and
// within the integer and fractional digit bounds.
func (m Money) Validate() error {
	if !m.amount.IsPositive() {
		return ErrInvalidAmount
	}
	exp := int64(m.amount.Exponent())
	if exp < -maxFractionDigits {
		return ErrInvalidAmount
	}
	if int64(m.amount.NumDigits())+exp > maxIntegerDigits {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// PercentOf returns m as a percentage of whole. Callers must ensure whole is
// non-zero.
func (m Money) PercentOf(whole Money) float64 {
	return m.amount.Div(whole.amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// Float64 returns the amount as a float64 for display purposes such as chart
// values. Use Money arithmetic for calculations.
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

func (m Money) String() string {
	return m.amount.String()
}

// Format renders m with the currency symbol, two decimals and thousands
// separators, e.g. "¥1,234.50" or "-¥12.00".
func (m Money) Format(symbol string) string {
	abs := m.amount.Abs().Round(2)
	whole := abs.Truncate(0)
	frac := abs.Sub(whole).StringFixed(2) // "0.xx"
	s := symbol + humanize.BigComma(whole.BigInt()) + frac[1:]
	if m.amount.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	m.amount = d
	return nil
}
