package credit

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ScoreFloor   = 300
	ScoreCeiling = 900
)

// Occupation categories that earn the full stability bonus.
var privilegedOccupations = map[string]struct{}{
	"employee":   {},
	"government": {},
	"it":         {},
}

// ScoreInput carries the applicant-declared signals scored at creation time.
type ScoreInput struct {
	MonthlyIncome           decimal.Decimal
	RequestedAmount         decimal.Decimal
	Occupation              string
	PriorLoanCount          int
	PendingInstallmentCount int
}

// ApplicationScore is the deterministic, side-effect-free application-time
// score in [300,900]. It is computed once per application and never again.
func ApplicationScore(in ScoreInput) int {
	score := ScoreFloor

	annualIncome := in.MonthlyIncome.Mul(decimal.NewFromInt(12))
	if annualIncome.GreaterThanOrEqual(in.RequestedAmount) {
		score += 180
	} else {
		score += 90
	}

	if _, ok := privilegedOccupations[strings.ToLower(in.Occupation)]; ok {
		score += 120
	} else {
		score += 60
	}

	if in.PriorLoanCount == 0 {
		score += 120
	} else {
		score += 60
	}

	if in.PendingInstallmentCount == 0 {
		score += 60
	} else {
		score += 20
	}

	return clamp(score)
}

// RepaymentSummary aggregates a loan's repayment history for the
// post-disbursement recalculation.
type RepaymentSummary struct {
	TotalEMIs       int
	PaidEMIs        int
	MissedEMIs      int
	LatePayments    int
	LoanClosedClean bool
}

// RecalcScore is the post-disbursement score in [300,900], driven by repayment
// history rather than application-time signals. Distinct from
// ApplicationScore; the two must not be conflated.
func RecalcScore(s RepaymentSummary) int {
	score := 700

	if s.MissedEMIs == 0 {
		score += 50
	} else {
		score -= s.MissedEMIs * 30
	}

	if s.LatePayments > 2 {
		score -= 40
	}

	if s.LoanClosedClean {
		score += 30
	}

	return clamp(score)
}

func clamp(score int) int {
	if score < ScoreFloor {
		return ScoreFloor
	}
	if score > ScoreCeiling {
		return ScoreCeiling
	}
	return score
}
