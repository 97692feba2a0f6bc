package rulemock

import (
	"context"

	domain "loancore/internal/domain/rule"
)

var _ domain.Source = (*Source)(nil)

// Source serves rules from memory; zero value serves the default policy.
type Source struct {
	Rules         []domain.ScoreRange
	ActiveRulesFn func(ctx context.Context) ([]domain.ScoreRange, error)
}

func (m *Source) ActiveRules(ctx context.Context) ([]domain.ScoreRange, error) {
	if m.ActiveRulesFn != nil {
		return m.ActiveRulesFn(ctx)
	}
	if m.Rules != nil {
		return m.Rules, nil
	}
	return domain.Defaults(), nil
}
