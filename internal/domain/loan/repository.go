package loan

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("loan not found")
	// ErrConflict is returned by conditional installment/loan updates that
	// matched no row (already paid, already closed, concurrent settlement).
	ErrConflict = errors.New("loan state changed concurrently")
)

type Repository interface {
	Create(ctx context.Context, l *ActiveLoan) error
	GetByLoanID(ctx context.Context, loanID string) (*ActiveLoan, error)
	GetByApplicationID(ctx context.Context, appID string) (*ActiveLoan, error)

	// CreateInstallments inserts the whole schedule in one batch.
	CreateInstallments(ctx context.Context, batch []Installment) error
	// HasInstallments guards finalize retries against double-schedule generation.
	HasInstallments(ctx context.Context, loanID string) (bool, error)

	GetInstallment(ctx context.Context, id uint64) (*Installment, error)
	// ListInstallments returns the full schedule ordered by sequence.
	ListInstallments(ctx context.Context, loanID string) ([]Installment, error)
	// ListDue returns installments with due date <= now and status in
	// {PENDING, FAILED}, ordered by user then sequence.
	ListDue(ctx context.Context, now time.Time) ([]Installment, error)

	// MarkInstallmentPaid flips PENDING/FAILED -> PAID; ErrConflict when the
	// row was already settled (this is the settlement idempotence guard).
	MarkInstallmentPaid(ctx context.Context, id uint64, paidAt time.Time) error
	// MarkInstallmentFailed flips PENDING/FAILED -> FAILED and increments the
	// attempt counter.
	MarkInstallmentFailed(ctx context.Context, id uint64) error

	IncrementPaidEMIs(ctx context.Context, loanID string) error
	IncrementMissedEMIs(ctx context.Context, loanID string) error
	// Close flips ACTIVE -> CLOSED; ErrConflict when already closed.
	Close(ctx context.Context, loanID string, at time.Time) error

	CountInstallments(ctx context.Context, loanID string, status InstallmentStatus) (int64, error)
}
