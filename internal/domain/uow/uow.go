package uow

import (
	"context"

	"loancore/internal/domain/account"
	"loancore/internal/domain/application"
	"loancore/internal/domain/audit"
	"loancore/internal/domain/loan"
	"loancore/internal/domain/user"
)

// Repos bundles every repository bound to the same transaction.
type Repos struct {
	Applications application.Repository
	Loans        loan.Repository
	Accounts     account.Repository
	Users        user.Repository
	Audit        audit.Sink
}

// UnitOfWork runs fn atomically: either every write inside commits or none
// does. Conditional-update conflicts surfaced by the repos roll the whole
// unit back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
