package rule

import (
	"context"

	"loancore/internal/domain/application"
)

// ScoreRange maps an inclusive score band to a system decision. Rows are
// externally configured and evaluated highest min_score first.
type ScoreRange struct {
	ID       uint64                     `gorm:"primaryKey;column:id" json:"-"`
	MinScore int                        `gorm:"column:min_score" json:"min_score"`
	MaxScore int                        `gorm:"column:max_score" json:"max_score"`
	Decision application.SystemDecision `gorm:"column:decision;size:16" json:"decision"`
	Active   bool                       `gorm:"column:active" json:"active"`
}

func (ScoreRange) TableName() string { return "credit_rules" }

// Source returns the active score-range table, ordered by min_score descending.
type Source interface {
	ActiveRules(ctx context.Context) ([]ScoreRange, error)
}

// Evaluate picks the first matching range. When nothing matches, the safe
// fallback is AUTO_REJECTED.
func Evaluate(rules []ScoreRange, score int) application.SystemDecision {
	for _, r := range rules {
		if score >= r.MinScore && score <= r.MaxScore {
			return r.Decision
		}
	}
	return application.DecisionAutoRejected
}

// Defaults is the primary policy seeded when no configuration exists:
// score >= 750 auto-approved, 550..749 manual review, below 550 auto-rejected.
func Defaults() []ScoreRange {
	return []ScoreRange{
		{MinScore: 750, MaxScore: 900, Decision: application.DecisionAutoApproved, Active: true},
		{MinScore: 550, MaxScore: 749, Decision: application.DecisionManualReview, Active: true},
		{MinScore: 300, MaxScore: 549, Decision: application.DecisionAutoRejected, Active: true},
	}
}
