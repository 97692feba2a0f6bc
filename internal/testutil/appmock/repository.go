package appmock

import (
	"context"

	domain "loancore/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs; unfilled getters return
// ErrNotFound so the not-found path is the default.
type Repo struct {
	CreateFn              func(ctx context.Context, a *domain.Application) error
	GetByAppIDFn          func(ctx context.Context, appID string) (*domain.Application, error)
	GetByIdempotencyKeyFn func(ctx context.Context, key string) (*domain.Application, error)
	TransitionStatusFn    func(ctx context.Context, appID string, from []domain.Status, expectDecision domain.SystemDecision, tr domain.Transition) error
	ListEscalatedFn       func(ctx context.Context) ([]domain.Application, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAppID(ctx context.Context, appID string) (*domain.Application, error) {
	if m.GetByAppIDFn != nil {
		return m.GetByAppIDFn(ctx, appID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Application, error) {
	if m.GetByIdempotencyKeyFn != nil {
		return m.GetByIdempotencyKeyFn(ctx, key)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) TransitionStatus(ctx context.Context, appID string, from []domain.Status, expectDecision domain.SystemDecision, tr domain.Transition) error {
	if m.TransitionStatusFn != nil {
		return m.TransitionStatusFn(ctx, appID, from, expectDecision, tr)
	}
	return nil
}

func (m *Repo) ListEscalated(ctx context.Context) ([]domain.Application, error) {
	if m.ListEscalatedFn != nil {
		return m.ListEscalatedFn(ctx)
	}
	return nil, nil
}
