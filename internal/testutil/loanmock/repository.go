package loanmock

import (
	"context"
	"time"

	domain "loancore/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	CreateFn              func(ctx context.Context, l *domain.ActiveLoan) error
	GetByLoanIDFn         func(ctx context.Context, loanID string) (*domain.ActiveLoan, error)
	GetByApplicationIDFn  func(ctx context.Context, appID string) (*domain.ActiveLoan, error)
	CreateInstallmentsFn  func(ctx context.Context, batch []domain.Installment) error
	HasInstallmentsFn     func(ctx context.Context, loanID string) (bool, error)
	GetInstallmentFn      func(ctx context.Context, id uint64) (*domain.Installment, error)
	ListInstallmentsFn    func(ctx context.Context, loanID string) ([]domain.Installment, error)
	ListDueFn             func(ctx context.Context, now time.Time) ([]domain.Installment, error)
	MarkInstallmentPaidFn func(ctx context.Context, id uint64, paidAt time.Time) error
	MarkInstallmentFailFn func(ctx context.Context, id uint64) error
	IncrementPaidEMIsFn   func(ctx context.Context, loanID string) error
	IncrementMissedEMIsFn func(ctx context.Context, loanID string) error
	CloseFn               func(ctx context.Context, loanID string, at time.Time) error
	CountInstallmentsFn   func(ctx context.Context, loanID string, status domain.InstallmentStatus) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.ActiveLoan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.ActiveLoan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByApplicationID(ctx context.Context, appID string) (*domain.ActiveLoan, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, appID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) CreateInstallments(ctx context.Context, batch []domain.Installment) error {
	if m.CreateInstallmentsFn != nil {
		return m.CreateInstallmentsFn(ctx, batch)
	}
	return nil
}

func (m *Repo) HasInstallments(ctx context.Context, loanID string) (bool, error) {
	if m.HasInstallmentsFn != nil {
		return m.HasInstallmentsFn(ctx, loanID)
	}
	return false, nil
}

func (m *Repo) GetInstallment(ctx context.Context, id uint64) (*domain.Installment, error) {
	if m.GetInstallmentFn != nil {
		return m.GetInstallmentFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListInstallments(ctx context.Context, loanID string) ([]domain.Installment, error) {
	if m.ListInstallmentsFn != nil {
		return m.ListInstallmentsFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListDue(ctx context.Context, now time.Time) ([]domain.Installment, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, now)
	}
	return nil, nil
}

func (m *Repo) MarkInstallmentPaid(ctx context.Context, id uint64, paidAt time.Time) error {
	if m.MarkInstallmentPaidFn != nil {
		return m.MarkInstallmentPaidFn(ctx, id, paidAt)
	}
	return nil
}

func (m *Repo) MarkInstallmentFailed(ctx context.Context, id uint64) error {
	if m.MarkInstallmentFailFn != nil {
		return m.MarkInstallmentFailFn(ctx, id)
	}
	return nil
}

func (m *Repo) IncrementPaidEMIs(ctx context.Context, loanID string) error {
	if m.IncrementPaidEMIsFn != nil {
		return m.IncrementPaidEMIsFn(ctx, loanID)
	}
	return nil
}

func (m *Repo) IncrementMissedEMIs(ctx context.Context, loanID string) error {
	if m.IncrementMissedEMIsFn != nil {
		return m.IncrementMissedEMIsFn(ctx, loanID)
	}
	return nil
}

func (m *Repo) Close(ctx context.Context, loanID string, at time.Time) error {
	if m.CloseFn != nil {
		return m.CloseFn(ctx, loanID, at)
	}
	return nil
}

func (m *Repo) CountInstallments(ctx context.Context, loanID string, status domain.InstallmentStatus) (int64, error) {
	if m.CountInstallmentsFn != nil {
		return m.CountInstallmentsFn(ctx, loanID, status)
	}
	return 0, nil
}
