// Package money provides fixed-point handling of monetary values.
//
// Balances and transaction values are stored as int64 centavos so that
// ledger arithmetic is exact. Conversion to and from the decimal reais
// used on the wire goes through shopspring/decimal, never through raw
// float arithmetic.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an amount is not a finite number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountMustBePositive is returned when an amount is zero or negative.
	ErrAmountMustBePositive = errors.New("amount must be positive")
)

// Amount is a monetary value in centavos (hundredths of a real).
type Amount = int64

var centsPerReal = decimal.NewFromInt(100)

// FromReais converts a decimal reais value into centavos, rounding to the
// nearest centavo. Non-finite values are rejected.
func FromReais(v float64) (Amount, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	d := decimal.NewFromFloat(v).Mul(centsPerReal).Round(0)
	if d.BigInt().BitLen() > 62 {
		return 0, ErrInvalidAmount
	}
	return d.IntPart(), nil
}

// PositiveFromReais converts like FromReais but additionally requires the
// result to be strictly positive.
func PositiveFromReais(v float64) (Amount, error) {
	cents, err := FromReais(v)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrAmountMustBePositive
	}
	return cents, nil
}

// ToReais converts centavos back into a decimal reais value for responses.
func ToReais(cents Amount) float64 {
	f, _ := decimal.NewFromInt(cents).Div(centsPerReal).Float64()
	return f
}

// FormatBRL renders centavos as a Brazilian currency string, e.g. "R$ 1234.56".
func FormatBRL(cents Amount) string {
	return "R$ " + decimal.NewFromInt(cents).Div(centsPerReal).StringFixed(2)
}
