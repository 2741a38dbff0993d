// Package core provides the transaction record and amount handling.
//
// This file contains the parsing of user-typed amounts and the currency
// formatting used by the presentation layers.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal exponents of the leading digit that still fit a float64.
const (
	maxAmountExponent = 308
	minAmountExponent = -324
)

// ParseAmount converts user input into a decimal amount.
//
// Surrounding whitespace is ignored. Any finite number is accepted, including
// negative values and exponent notation; the sign is kept as entered.
// Empty input, text, NaN and values beyond the float64 range return
// ErrInvalidAmount. Values below the smallest float64 read as zero.
//
// Examples:
//
//	ParseAmount("1500")   -> 1500, nil
//	ParseAmount(" 60.5 ") -> 60.5, nil
//	ParseAmount("1e3")    -> 1000, nil
//	ParseAmount("1e400")  -> 0, ErrInvalidAmount
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}

	// decided from the exponent, the value is never expanded
	coef := d.Coefficient()
	lead := len(coef.Abs(coef).String()) + int(d.Exponent()) - 1
	switch {
	case lead > maxAmountExponent:
		return decimal.Zero, ErrInvalidAmount
	case lead < minAmountExponent:
		return decimal.Zero, nil
	case lead == maxAmountExponent:
		if f, _ := d.Float64(); math.IsInf(f, 0) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	return d, nil
}

// FormatDollars renders an amount with two decimals, e.g. "$1439.50" or "-$60.50".
// Values are rounded for display only.
func FormatDollars(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
