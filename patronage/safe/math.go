package safe

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDivisionByZero is returned when attempting to divide by zero.
var ErrDivisionByZero = errors.New("division by zero")

// Divide performs decimal division with zero check.
// Returns ErrDivisionByZero if denominator is zero.
//
// Example:
//
//	share, err := safe.Divide(memberWeighted, totalWeighted)
//	if err != nil {
//	    return fmt.Errorf("calculate patronage share: %w", err)
//	}
func Divide(numerator, denominator decimal.Decimal) (decimal.Decimal, error) {
	if denominator.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}

	return numerator.Div(denominator), nil
}

// DivideOrZero performs decimal division, returning zero if denominator is
// zero. Use when zero is an acceptable fallback (e.g., a share of an empty
// patronage pool is zero).
func DivideOrZero(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}

	return numerator.Div(denominator)
}

// WithinTolerance reports whether a and b differ by no more than tol.
// All tolerance comparisons in the library go through this helper so the
// comparison semantics stay uniform across checkers.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// SumPositive reports whether every value in the slice is non-negative.
func SumPositive(values []decimal.Decimal) bool {
	for _, v := range values {
		if v.IsNegative() {
			return false
		}
	}

	return true
}

// Sum adds all values in the slice.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}

	return total
}
