package decimal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits for user-entered amounts
const (
	MaxIntegerDigits = 15
	MaxScale         = 6
	maxAmountLen     = 40
)

// Zero is decimal zero
var Zero = decimal.Zero

// ErrOutOfRange is returned for amounts with too many integer or fractional digits
var ErrOutOfRange = errors.New("amount out of range")

// FromString parses a user-entered amount. Surrounding spaces and
// thin/non-breaking group separators are dropped and a decimal comma is accepted.
func FromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("empty amount")
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u2009", "", "\u202f", "").Replace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if len(s) > maxAmountLen {
		return Zero, ErrOutOfRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}
	return bounded(d)
}

// bounded checks the magnitude from the coefficient and exponent alone.
// Any arithmetic or String call on an unchecked value such as 1e50000000
// would expand the full digit string.
func bounded(d decimal.Decimal) (decimal.Decimal, error) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return Zero, nil
	}
	digits := strings.TrimPrefix(coef.String(), "-")
	significant := strings.TrimRight(digits, "0")

	// exponent of the last significant digit
	exp := int64(d.Exponent()) + int64(len(digits)-len(significant))
	if -exp > MaxScale || exp+int64(len(significant)) > MaxIntegerDigits {
		return Zero, ErrOutOfRange
	}
	return d, nil
}

// Mul multiplies two decimals exactly
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// Format renders an amount the way it appears on the document:
// no exponent, no trailing zeros, no grouping.
func Format(d decimal.Decimal) string {
	return d.String()
}
