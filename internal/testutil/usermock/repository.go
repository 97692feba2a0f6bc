package usermock

import (
	"context"
	"time"

	domain "loancore/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
	UpdateCIBILFn func(ctx context.Context, userID string, score int, at time.Time) error
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpdateCIBIL(ctx context.Context, userID string, score int, at time.Time) error {
	if m.UpdateCIBILFn != nil {
		return m.UpdateCIBILFn(ctx, userID, score, at)
	}
	return nil
}

// Eligible returns a user that clears every application eligibility check.
func Eligible(userID string) *domain.User {
	return &domain.User{
		UserID:         userID,
		Occupation:     "it",
		KYCStatus:      domain.KYCCompleted,
		ApprovalStatus: domain.ApprovalApproved,
		CIBILScore:     700,
	}
}
