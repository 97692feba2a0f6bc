package mysql

import (
	"context"

	"gorm.io/gorm"

	ruleDomain "loancore/internal/domain/rule"
)

type RuleRepository struct{ db *gorm.DB }

func NewRuleRepository(db *gorm.DB) *RuleRepository { return &RuleRepository{db: db} }

// ActiveRules returns the configured score ranges, highest min_score first,
// the order evaluation expects.
func (r *RuleRepository) ActiveRules(ctx context.Context) ([]ruleDomain.ScoreRange, error) {
	var out []ruleDomain.ScoreRange
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("min_score DESC").
		Find(&out).Error
	return out, err
}

// Seed installs the default policy when no rules are configured yet.
func (r *RuleRepository) Seed(ctx context.Context) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ruleDomain.ScoreRange{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	defaults := ruleDomain.Defaults()
	return r.db.WithContext(ctx).Create(&defaults).Error
}
