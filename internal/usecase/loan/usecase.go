package loan

import (
	"context"
	"errors"
	"time"

	"loancore/internal/domain/actor"
	domainApp "loancore/internal/domain/application"
	"loancore/internal/domain/audit"
	"loancore/internal/domain/credit"
	domain "loancore/internal/domain/loan"
	"loancore/internal/domain/uow"
	"loancore/pkg/clock"
	"loancore/pkg/id"
)

// Due dates are spaced a fixed 30 days apart from the finalization moment,
// not calendar-month aware.
const installmentPeriod = 30 * 24 * time.Hour

type Usecase struct {
	loans domain.Repository
	uow   uow.UnitOfWork
	clk   clock.Clock
}

func NewUsecase(loans domain.Repository, tx uow.UnitOfWork, clk clock.Clock) *Usecase {
	return &Usecase{loans: loans, uow: tx, clk: clk}
}

// Finalize converts an ADMIN_APPROVED application into an active loan with a
// generated repayment schedule, atomically: loan row + tenure installments +
// application FINALIZED commit or roll back together. A retry after a partial
// earlier attempt reuses the existing loan and skips schedule generation
// instead of duplicating it.
func (u *Usecase) Finalize(ctx context.Context, in FinalizeInput, act actor.Actor) (*LoanDTO, error) {
	if in.TenureMonths <= 0 {
		return nil, domainApp.ErrInvalidInput
	}

	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		app, err := r.Applications.GetByAppID(ctx, in.ApplicationID)
		if err != nil {
			return err
		}
		if app.Status != domainApp.StatusAdminApproved {
			return domainApp.ErrConflict
		}

		now := u.clk.Now()

		l, err := r.Loans.GetByApplicationID(ctx, in.ApplicationID)
		switch {
		case err == nil:
			// Resume path: a previous attempt created the loan but crashed
			// before committing the rest of the batch.
		case errors.Is(err, domain.ErrNotFound):
			emi, cerr := credit.Installment(app.LoanAmount, in.InterestRate, in.TenureMonths)
			if cerr != nil {
				return cerr
			}
			l = &domain.ActiveLoan{
				LoanID:        id.NewID32(),
				ApplicationID: app.AppID,
				UserID:        app.UserID,
				ApprovedBy:    act.ID,
				ApprovedRole:  string(act.Role),
				Principal:     app.LoanAmount,
				InterestRate:  in.InterestRate,
				TenureMonths:  in.TenureMonths,
				EMIAmount:     emi,
				Status:        domain.StatusActive,
				DisbursedAt:   now,
			}
			if err := r.Loans.Create(ctx, l); err != nil {
				return err
			}
		default:
			return err
		}

		has, err := r.Loans.HasInstallments(ctx, l.LoanID)
		if err != nil {
			return err
		}
		if !has {
			batch := buildSchedule(l, now)
			if err := r.Loans.CreateInstallments(ctx, batch); err != nil {
				return err
			}
		}

		tr := domainApp.Transition{
			To:             domainApp.StatusFinalized,
			DecidedBy:      act.ID,
			DeciderRole:    string(act.Role),
			DecisionReason: "loan disbursed",
			DecidedAt:      now,
		}
		if err := r.Applications.TransitionStatus(ctx, app.AppID,
			[]domainApp.Status{domainApp.StatusAdminApproved}, "", tr); err != nil {
			return err
		}

		if err := r.Audit.Append(ctx, &audit.Entry{
			ActorID:    act.ID,
			ActorRole:  string(act.Role),
			Action:     audit.ActionLoanFinalize,
			EntityType: audit.EntityLoan,
			EntityID:   l.LoanID,
			Remarks:    "application " + app.AppID + " finalized",
			Timestamp:  now,
		}); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// Schedule returns the repayment plan ordered by sequence.
func (u *Usecase) Schedule(ctx context.Context, loanID string) ([]InstallmentDTO, error) {
	if _, err := u.loans.GetByLoanID(ctx, loanID); err != nil {
		return nil, err
	}
	rows, err := u.loans.ListInstallments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]InstallmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toInstallmentDTO(&rows[i]))
	}
	return out, nil
}

// buildSchedule creates the full batch of tenure installments, sequence
// 1..N, due 30, 60, ... days after finalization.
func buildSchedule(l *domain.ActiveLoan, from time.Time) []domain.Installment {
	batch := make([]domain.Installment, 0, l.TenureMonths)
	for seq := 1; seq <= l.TenureMonths; seq++ {
		batch = append(batch, domain.Installment{
			LoanID:   l.LoanID,
			UserID:   l.UserID,
			Sequence: seq,
			DueDate:  from.Add(time.Duration(seq) * installmentPeriod),
			Amount:   l.EMIAmount,
			Status:   domain.InstallmentPending,
		})
	}
	return batch
}
