package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// One is decimal one
var One = decimal.NewFromInt(1)

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromFloat creates decimal from float with euro-cent rounding
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseOr parses a decimal from text, returning fallback on empty or
// unparsable input. It never errors: source documents carry blank,
// absent and malformed numeric fields and parsing must stay total.
func ParseOr(s string, fallback decimal.Decimal) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fallback
	}
	return d
}

// ParseIntOr parses an integer from text with a fallback, tolerating
// decimal notation ("2.0" parses as 2).
func ParseIntOr(s string, fallback int) int {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return int(d.IntPart())
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Mul multiplies two decimals, rounds to euro cents
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(2)
}

// Div divides a by b, rounds to euro cents
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.Div(b).Round(2)
}

// Percent computes amount * (percentage/100), rounded to euro cents
func Percent(amount, percentage decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return amount.Mul(percentage).Div(hundred).Round(2)
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// RoundEuro rounds to euro cents
func RoundEuro(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
