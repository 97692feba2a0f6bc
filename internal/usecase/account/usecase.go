package account

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "loancore/internal/domain/account"
	"loancore/internal/domain/uow"
	"loancore/pkg/clock"
	"loancore/pkg/id"
)

var ErrInvalidAmount = errors.New("deposit amount must be positive")

type BalanceDTO struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

type Usecase struct {
	accounts domain.Repository
	uow      uow.UnitOfWork
	clk      clock.Clock
}

func NewUsecase(accounts domain.Repository, tx uow.UnitOfWork, clk clock.Clock) *Usecase {
	return &Usecase{accounts: accounts, uow: tx, clk: clk}
}

// Deposit credits the user's account (creating it on first use) and appends
// the matching ledger entry in the same transaction.
func (u *Usecase) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*BalanceDTO, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var dto *BalanceDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.clk.Now()
		balance, err := r.Accounts.Deposit(ctx, userID, amount, now)
		if err != nil {
			return err
		}
		if err := r.Accounts.CreateTransaction(ctx, &domain.Transaction{
			TransactionID: id.NewTransactionID(),
			UserID:        userID,
			Amount:        amount,
			Type:          domain.TransactionDeposit,
			Status:        domain.TransactionCompleted,
			BalanceAfter:  balance,
		}); err != nil {
			return err
		}
		dto = &BalanceDTO{UserID: userID, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get returns the current balance.
func (u *Usecase) Get(ctx context.Context, userID string) (*BalanceDTO, error) {
	acct, err := u.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{UserID: acct.UserID, Balance: acct.Balance}, nil
}
