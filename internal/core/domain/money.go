package domain

import (
	"errors"
	"fmt"
)

// ErrCurrencyMismatch is returned when arithmetic is attempted between two
// Money values carrying different currency codes.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an amount in integer minor units (e.g. cents) tagged with an
// ISO 4217 currency code. Integer minor units avoid floating point rounding
// errors in document totals.
type Money struct {
	AmountMinor int64  `json:"amountMinorUnits"`
	Currency    string `json:"currency"` // 3-letter code, e.g. "EUR"
}

// NewMoney constructs a Money value.
func NewMoney(amountMinor int64, currency string) Money {
	return Money{AmountMinor: amountMinor, Currency: currency}
}

// Add returns the sum of m and other. Both values must carry the same
// currency code.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{AmountMinor: m.AmountMinor + other.AmountMinor, Currency: m.Currency}, nil
}

// Neg returns the amount with its sign flipped, e.g. to represent a credit.
func (m Money) Neg() Money {
	return Money{AmountMinor: -m.AmountMinor, Currency: m.Currency}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.AmountMinor < 0
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.AmountMinor == 0
}

// GreaterThanOrEqual compares m against other. Both values must carry the
// same currency code.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: cannot compare %s with %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.AmountMinor >= other.AmountMinor, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.AmountMinor, m.Currency)
}
