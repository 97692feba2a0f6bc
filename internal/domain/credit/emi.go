package credit

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for non-positive principal or tenure.
var ErrInvalidInput = errors.New("principal and tenure must be positive")

var (
	one     = decimal.NewFromInt(1)
	twelveH = decimal.NewFromInt(1200)
)

// Installment computes the level (reducing-balance) EMI:
//
//	r   = annualRatePercent / 1200
//	emi = principal * r * (1+r)^n / ((1+r)^n - 1)
//
// All arithmetic stays in decimal so schedules reconcile to the cent across
// hundreds of rows. The result is rounded to 2 places, half up.
func Installment(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if tenureMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrInvalidInput
	}
	if annualRatePercent.IsNegative() {
		return decimal.Decimal{}, ErrInvalidInput
	}

	months := decimal.NewFromInt(int64(tenureMonths))

	// Zero rate degenerates the formula (division by zero): even split.
	if annualRatePercent.IsZero() {
		return principal.DivRound(months, 2), nil
	}

	r := annualRatePercent.Div(twelveH)
	factor := one.Add(r).Pow(months)
	numerator := principal.Mul(r).Mul(factor)
	denominator := factor.Sub(one)
	return numerator.DivRound(denominator, 2), nil
}
