package account

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("account not found")
	// ErrInsufficientBalance is an expected business outcome, not a fault:
	// the settlement run maps it to a FAILED installment.
	ErrInsufficientBalance = errors.New("insufficient account balance")
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Account, error)

	// Debit subtracts amount only if balance >= amount (conditional update),
	// returning the resulting balance. ErrInsufficientBalance otherwise.
	Debit(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error)

	// Deposit adds amount, creating the account on first use, and returns the
	// resulting balance.
	Deposit(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error)

	// CreateTransaction appends an immutable ledger entry.
	CreateTransaction(ctx context.Context, t *Transaction) error

	// CountPaidPenalties counts settled PENALTY ledger rows for a loan; the
	// credit recalculation reads this as the late-payment signal.
	CountPaidPenalties(ctx context.Context, loanID string) (int64, error)
}
