package uowmock

import (
	"context"

	"loancore/internal/domain/uow"
	"loancore/internal/testutil/acctmock"
	"loancore/internal/testutil/appmock"
	"loancore/internal/testutil/auditmock"
	"loancore/internal/testutil/loanmock"
	"loancore/internal/testutil/usermock"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

// UoW runs the transactional closure directly against the configured mocks.
// There is no real transaction; tests assert on the mock calls instead.
type UoW struct {
	Repos uow.Repos

	// WithinTxFn overrides the default pass-through when set.
	WithinTxFn func(ctx context.Context, fn func(r uow.Repos) error) error
}

// New wires a UoW around a full set of fresh mocks and returns all of them so
// tests can program individual methods.
func New() (*UoW, *appmock.Repo, *loanmock.Repo, *acctmock.Repo, *usermock.Repo, *auditmock.Sink) {
	apps := &appmock.Repo{}
	loans := &loanmock.Repo{}
	accts := &acctmock.Repo{}
	users := &usermock.Repo{}
	sink := &auditmock.Sink{}
	u := &UoW{Repos: uow.Repos{
		Applications: apps,
		Loans:        loans,
		Accounts:     accts,
		Users:        users,
		Audit:        sink,
	}}
	return u, apps, loans, accts, users, sink
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.Repos)
}
