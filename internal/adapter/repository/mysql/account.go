package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	acctDomain "loancore/internal/domain/account"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*acctDomain.Account, error) {
	var out acctDomain.Account
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, acctDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Debit only succeeds when the current balance covers the amount; the
// condition rides in the WHERE clause so concurrent debits serialize on the
// row instead of losing updates.
func (r *AccountRepository) Debit(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	res := r.db.WithContext(ctx).
		Model(&acctDomain.Account{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": at,
		})
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, acctDomain.ErrInsufficientBalance
	}

	acct, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

func (r *AccountRepository) Deposit(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	res := r.db.WithContext(ctx).
		Model(&acctDomain.Account{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", amount),
			"updated_at": at,
		})
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		// First deposit opens the account.
		acct := &acctDomain.Account{UserID: userID, Balance: amount, Status: "ACTIVE"}
		if err := r.db.WithContext(ctx).Create(acct).Error; err != nil {
			return decimal.Zero, err
		}
		return acct.Balance, nil
	}

	acct, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

func (r *AccountRepository) CreateTransaction(ctx context.Context, t *acctDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *AccountRepository) CountPaidPenalties(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&acctDomain.Transaction{}).
		Where("loan_id = ? AND type = ? AND status = ?",
			loanID, acctDomain.TransactionPenalty, acctDomain.TransactionPaid).
		Count(&n).Error
	return n, err
}
