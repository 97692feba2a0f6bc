package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	loanDomain "loancore/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.ActiveLoan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.ActiveLoan, error) {
	var out loanDomain.ActiveLoan
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetByApplicationID(ctx context.Context, appID string) (*loanDomain.ActiveLoan, error) {
	var out loanDomain.ActiveLoan
	err := r.db.WithContext(ctx).Where("application_id = ?", appID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) CreateInstallments(ctx context.Context, batch []loanDomain.Installment) error {
	if len(batch) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&batch).Error
}

func (r *LoanRepository) HasInstallments(ctx context.Context, loanID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Installment{}).
		Where("loan_id = ?", loanID).
		Count(&n).Error
	return n > 0, err
}

func (r *LoanRepository) GetInstallment(ctx context.Context, id uint64) (*loanDomain.Installment, error) {
	var out loanDomain.Installment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) ListInstallments(ctx context.Context, loanID string) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("sequence").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListDue(ctx context.Context, now time.Time) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	err := r.db.WithContext(ctx).
		Where("due_date <= ? AND status IN ?", now,
			[]loanDomain.InstallmentStatus{loanDomain.InstallmentPending, loanDomain.InstallmentFailed}).
		Order("user_id, sequence").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) MarkInstallmentPaid(ctx context.Context, id uint64, paidAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Installment{}).
		Where("id = ? AND status IN ?", id,
			[]loanDomain.InstallmentStatus{loanDomain.InstallmentPending, loanDomain.InstallmentFailed}).
		Updates(map[string]any{"status": loanDomain.InstallmentPaid, "paid_at": paidAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrConflict
	}
	return nil
}

func (r *LoanRepository) MarkInstallmentFailed(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Installment{}).
		Where("id = ? AND status IN ?", id,
			[]loanDomain.InstallmentStatus{loanDomain.InstallmentPending, loanDomain.InstallmentFailed}).
		Updates(map[string]any{
			"status":   loanDomain.InstallmentFailed,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrConflict
	}
	return nil
}

func (r *LoanRepository) IncrementPaidEMIs(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).
		Model(&loanDomain.ActiveLoan{}).
		Where("loan_id = ?", loanID).
		Update("paid_emis", gorm.Expr("paid_emis + 1")).Error
}

func (r *LoanRepository) IncrementMissedEMIs(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).
		Model(&loanDomain.ActiveLoan{}).
		Where("loan_id = ?", loanID).
		Update("missed_emis", gorm.Expr("missed_emis + 1")).Error
}

func (r *LoanRepository) Close(ctx context.Context, loanID string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.ActiveLoan{}).
		Where("loan_id = ? AND status = ?", loanID, loanDomain.StatusActive).
		Updates(map[string]any{"status": loanDomain.StatusClosed, "closed_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrConflict
	}
	return nil
}

func (r *LoanRepository) CountInstallments(ctx context.Context, loanID string, status loanDomain.InstallmentStatus) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&loanDomain.Installment{}).
		Where("loan_id = ?", loanID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
