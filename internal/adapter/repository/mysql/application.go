package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	appDomain "loancore/internal/domain/application"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return appDomain.ErrDuplicateKey
	}
	return err
}

func (r *ApplicationRepository) GetByAppID(ctx context.Context, appID string) (*appDomain.Application, error) {
	var out appDomain.Application
	err := r.db.WithContext(ctx).Where("app_id = ?", appID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicationRepository) GetByIdempotencyKey(ctx context.Context, key string) (*appDomain.Application, error) {
	var out appDomain.Application
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TransitionStatus is the optimistic-concurrency write: the WHERE clause
// carries the expected current state, so of two concurrent conflicting
// requests exactly one matches a row.
func (r *ApplicationRepository) TransitionStatus(
	ctx context.Context,
	appID string,
	from []appDomain.Status,
	expectDecision appDomain.SystemDecision,
	tr appDomain.Transition,
) error {
	updates := map[string]any{
		"status":          tr.To,
		"decided_by":      tr.DecidedBy,
		"decider_role":    tr.DeciderRole,
		"decision_reason": tr.DecisionReason,
		"decided_at":      tr.DecidedAt,
	}
	if tr.MarkEscalated {
		updates["escalated"] = true
	}

	q := r.db.WithContext(ctx).
		Model(&appDomain.Application{}).
		Where("app_id = ? AND status IN ?", appID, from)
	if expectDecision != "" {
		q = q.Where("system_decision = ?", expectDecision)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appDomain.ErrConflict
	}
	return nil
}

func (r *ApplicationRepository) ListEscalated(ctx context.Context) ([]appDomain.Application, error) {
	var out []appDomain.Application
	err := r.db.WithContext(ctx).
		Where("status = ? AND escalated = ?", appDomain.StatusEscalated, true).
		Order("applied_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
