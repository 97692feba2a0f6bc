package acctmock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "loancore/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByUserIDFn        func(ctx context.Context, userID string) (*domain.Account, error)
	DebitFn              func(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error)
	DepositFn            func(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error)
	CreateTransactionFn  func(ctx context.Context, t *domain.Transaction) error
	CountPaidPenaltiesFn func(ctx context.Context, loanID string) (int64, error)
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Debit(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, userID, amount, at)
	}
	return decimal.Zero, domain.ErrInsufficientBalance
}

func (m *Repo) Deposit(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	if m.DepositFn != nil {
		return m.DepositFn(ctx, userID, amount, at)
	}
	return amount, nil
}

func (m *Repo) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if m.CreateTransactionFn != nil {
		return m.CreateTransactionFn(ctx, t)
	}
	return nil
}

func (m *Repo) CountPaidPenalties(ctx context.Context, loanID string) (int64, error) {
	if m.CountPaidPenaltiesFn != nil {
		return m.CountPaidPenaltiesFn(ctx, loanID)
	}
	return 0, nil
}
