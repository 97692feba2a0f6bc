package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"loancore/internal/domain/actor"
	domain "loancore/internal/domain/application"
	"loancore/internal/domain/audit"
	"loancore/internal/domain/credit"
	"loancore/internal/domain/rule"
	"loancore/internal/domain/uow"
	"loancore/internal/domain/user"
	"loancore/pkg/clock"
	"loancore/pkg/id"
)

// Usecase owns the application lifecycle: idempotent creation, manager
// confirmation/decision, escalation and admin adjudication. Every transition
// re-checks the persisted state via a conditional update, so two conflicting
// concurrent requests end with exactly one success and one conflict.
type Usecase struct {
	apps  domain.Repository
	users user.Repository
	rules rule.Source
	uow   uow.UnitOfWork
	clk   clock.Clock
}

func NewUsecase(apps domain.Repository, users user.Repository, rules rule.Source, tx uow.UnitOfWork, clk clock.Clock) *Usecase {
	return &Usecase{apps: apps, users: users, rules: rules, uow: tx, clk: clk}
}

// Create scores the applicant once, fixes the system decision, and persists
// the application keyed by the caller-supplied idempotency key. A repeated
// key returns the stored application instead of creating a duplicate, even
// under concurrent duplicate submissions (unique index, not check-then-insert).
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*ApplicationDTO, error) {
	if in.LoanAmount.LessThanOrEqual(decimal.Zero) || in.TenureMonths <= 0 || in.IdempotencyKey == "" {
		return nil, domain.ErrInvalidInput
	}

	usr, err := u.users.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := eligibility(usr); err != nil {
		return nil, err
	}

	// Fast path: replayed request.
	if existing, err := u.apps.GetByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
		return toDTO(existing, true), nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	score := credit.ApplicationScore(credit.ScoreInput{
		MonthlyIncome:           in.MonthlyIncome,
		RequestedAmount:         in.LoanAmount,
		Occupation:              in.Occupation,
		PriorLoanCount:          in.PriorLoanCount,
		PendingInstallmentCount: in.PendingInstallmentCount,
	})
	ranges, err := u.rules.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	decision := rule.Evaluate(ranges, score)

	now := u.clk.Now()
	app := &domain.Application{
		AppID:                   id.NewID32(),
		UserID:                  in.UserID,
		LoanType:                domain.LoanType(in.LoanType),
		LoanAmount:              in.LoanAmount,
		TenureMonths:            in.TenureMonths,
		Reason:                  in.Reason,
		MonthlyIncome:           in.MonthlyIncome,
		Occupation:              in.Occupation,
		PriorLoanCount:          in.PriorLoanCount,
		PendingInstallmentCount: in.PendingInstallmentCount,
		IncomeSlipURL:           in.IncomeSlipURL,
		Score:                   score,
		SystemDecision:          decision,
		Status:                  domain.StatusPending,
		IdempotencyKey:          in.IdempotencyKey,
		AppliedAt:               now,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Applications.Create(ctx, app); err != nil {
			return err
		}
		return r.Audit.Append(ctx, &audit.Entry{
			ActorID:    in.UserID,
			ActorRole:  string(actor.RoleUser),
			Action:     audit.ActionLoanApplied,
			EntityType: audit.EntityLoanApplication,
			EntityID:   app.AppID,
			Remarks:    in.Reason,
			Timestamp:  now,
		})
	})
	if errors.Is(err, domain.ErrDuplicateKey) {
		// Lost the race against a concurrent duplicate; both callers must
		// observe the same application.
		existing, gerr := u.apps.GetByIdempotencyKey(ctx, in.IdempotencyKey)
		if gerr != nil {
			return nil, gerr
		}
		return toDTO(existing, true), nil
	}
	if err != nil {
		return nil, err
	}
	return toDTO(app, false), nil
}

// Confirm is the only legal manager action on auto-decided applications:
// AUTO_APPROVED -> APPROVED, AUTO_REJECTED -> REJECTED (reason
// auto-populated). Anything else conflicts.
func (u *Usecase) Confirm(ctx context.Context, appID string, act actor.Actor) (*DecisionDTO, error) {
	var dto *DecisionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByAppID(ctx, appID)
		if err != nil {
			return err
		}

		now := u.clk.Now()
		tr := domain.Transition{DecidedBy: act.ID, DeciderRole: string(act.Role), DecidedAt: now}
		var action string
		switch a.SystemDecision {
		case domain.DecisionAutoApproved:
			tr.To = domain.StatusApproved
			tr.DecisionReason = "auto-approved by credit scoring rules"
			action = audit.ActionLoanApprove
		case domain.DecisionAutoRejected:
			tr.To = domain.StatusRejected
			tr.DecisionReason = "auto-rejected by credit scoring rules"
			action = audit.ActionLoanReject
		default:
			return domain.ErrConflict
		}

		if err := r.Applications.TransitionStatus(ctx, appID,
			[]domain.Status{domain.StatusPending}, a.SystemDecision, tr); err != nil {
			return err
		}
		if err := r.Audit.Append(ctx, auditEntry(act, action, appID, tr.DecisionReason, tr.DecidedAt)); err != nil {
			return err
		}
		dto = decisionResult(a, tr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Decide is the manager's direct decision, legal only when the system
// decision is MANUAL_REVIEW. Rejection requires a non-empty reason.
func (u *Usecase) Decide(ctx context.Context, appID string, act actor.Actor, decision Decision, reason string) (*DecisionDTO, error) {
	var dto *DecisionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByAppID(ctx, appID)
		if err != nil {
			return err
		}
		if a.SystemDecision != domain.DecisionManualReview {
			return domain.ErrConflict
		}

		now := u.clk.Now()
		tr := domain.Transition{DecidedBy: act.ID, DeciderRole: string(act.Role), DecidedAt: now, DecisionReason: reason}
		var action string
		switch decision {
		case DecisionApprove:
			tr.To = domain.StatusApproved
			action = audit.ActionLoanApprove
		case DecisionReject:
			if reason == "" {
				return domain.ErrReasonRequired
			}
			tr.To = domain.StatusRejected
			action = audit.ActionLoanReject
		default:
			return domain.ErrInvalidInput
		}

		if err := r.Applications.TransitionStatus(ctx, appID,
			[]domain.Status{domain.StatusPending}, domain.DecisionManualReview, tr); err != nil {
			return err
		}
		if err := r.Audit.Append(ctx, auditEntry(act, action, appID, reason, now)); err != nil {
			return err
		}
		dto = decisionResult(a, tr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Escalate routes a MANUAL_REVIEW application, still pending, to admin
// adjudication.
func (u *Usecase) Escalate(ctx context.Context, appID string, act actor.Actor, remarks string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByAppID(ctx, appID)
		if err != nil {
			return err
		}
		if a.SystemDecision != domain.DecisionManualReview {
			return domain.ErrConflict
		}

		now := u.clk.Now()
		tr := domain.Transition{
			To:             domain.StatusEscalated,
			DecidedBy:      act.ID,
			DeciderRole:    string(act.Role),
			DecisionReason: remarks,
			DecidedAt:      now,
			MarkEscalated:  true,
		}
		if err := r.Applications.TransitionStatus(ctx, appID,
			[]domain.Status{domain.StatusPending}, domain.DecisionManualReview, tr); err != nil {
			return err
		}
		return r.Audit.Append(ctx, auditEntry(act, audit.ActionLoanEscalate, appID, remarks, now))
	})
}

// AdminDecide adjudicates an ESCALATED application. The conditional update is
// what rejects a concurrent double decision.
func (u *Usecase) AdminDecide(ctx context.Context, appID string, act actor.Actor, decision Decision, reason string) (*DecisionDTO, error) {
	var dto *DecisionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByAppID(ctx, appID)
		if err != nil {
			return err
		}

		now := u.clk.Now()
		tr := domain.Transition{DecidedBy: act.ID, DeciderRole: string(act.Role), DecidedAt: now, DecisionReason: reason}
		var action string
		switch decision {
		case DecisionApprove:
			tr.To = domain.StatusAdminApproved
			action = audit.ActionLoanAdminApprove
		case DecisionReject:
			if reason == "" {
				return domain.ErrReasonRequired
			}
			tr.To = domain.StatusAdminRejected
			action = audit.ActionLoanAdminReject
		default:
			return domain.ErrInvalidInput
		}

		if err := r.Applications.TransitionStatus(ctx, appID,
			[]domain.Status{domain.StatusEscalated}, "", tr); err != nil {
			return err
		}
		if err := r.Audit.Append(ctx, auditEntry(act, action, appID, reason, now)); err != nil {
			return err
		}
		dto = decisionResult(a, tr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, appID string) (*ApplicationDTO, error) {
	a, err := u.apps.GetByAppID(ctx, appID)
	if err != nil {
		return nil, err
	}
	return toDTO(a, false), nil
}

func (u *Usecase) GetDecision(ctx context.Context, appID string) (*DecisionDTO, error) {
	a, err := u.apps.GetByAppID(ctx, appID)
	if err != nil {
		return nil, err
	}
	return toDecisionDTO(a), nil
}

func (u *Usecase) ListEscalated(ctx context.Context) ([]ApplicationDTO, error) {
	apps, err := u.apps.ListEscalated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, *toDTO(&apps[i], false))
	}
	return out, nil
}

func eligibility(usr *user.User) error {
	if usr.KYCStatus != user.KYCCompleted {
		return &domain.NotEligibleError{Condition: "KYC not completed"}
	}
	if usr.ApprovalStatus != user.ApprovalApproved {
		return &domain.NotEligibleError{Condition: "user not approved by bank"}
	}
	if usr.IsMinor {
		return &domain.NotEligibleError{Condition: "minor users are not eligible for loans"}
	}
	return nil
}

func auditEntry(act actor.Actor, action, appID, remarks string, at time.Time) *audit.Entry {
	return &audit.Entry{
		ActorID:    act.ID,
		ActorRole:  string(act.Role),
		Action:     action,
		EntityType: audit.EntityLoanApplication,
		EntityID:   appID,
		Remarks:    remarks,
		Timestamp:  at,
	}
}

func decisionResult(a *domain.Application, tr domain.Transition) *DecisionDTO {
	decidedAt := tr.DecidedAt
	return &DecisionDTO{
		AppID:          a.AppID,
		UserID:         a.UserID,
		Status:         string(tr.To),
		SystemDecision: string(a.SystemDecision),
		Score:          a.Score,
		DecidedBy:      tr.DecidedBy,
		DeciderRole:    tr.DeciderRole,
		DecisionReason: tr.DecisionReason,
		DecidedAt:      &decidedAt,
	}
}
