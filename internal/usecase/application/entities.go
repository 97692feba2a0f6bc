package application

import (
	"time"

	"github.com/shopspring/decimal"

	domain "loancore/internal/domain/application"
)

type CreateInput struct {
	UserID         string          `json:"-"`
	LoanType       string          `json:"loan_type"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	TenureMonths   int             `json:"tenure_months"`
	Reason         string          `json:"reason"`
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	Occupation     string          `json:"occupation"`
	PriorLoanCount int             `json:"prior_loan_count"`
	PendingInstallmentCount int    `json:"pending_installment_count"`
	IncomeSlipURL  string          `json:"income_slip_url"`
	IdempotencyKey string          `json:"-"`
}

// Decision is a manager's or admin's explicit choice.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

type ApplicationDTO struct {
	AppID          string          `json:"app_id"`
	UserID         string          `json:"user_id"`
	LoanType       string          `json:"loan_type"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	TenureMonths   int             `json:"tenure_months"`
	Score          int             `json:"score"`
	SystemDecision string          `json:"system_decision"`
	Status         string          `json:"status"`
	Escalated      bool            `json:"escalated"`
	AppliedAt      time.Time       `json:"applied_at"`
	// Reused marks a replayed idempotent creation.
	Reused bool `json:"reused,omitempty"`
}

type DecisionDTO struct {
	AppID          string     `json:"app_id"`
	UserID         string     `json:"user_id,omitempty"`
	Status         string     `json:"status"`
	SystemDecision string     `json:"system_decision"`
	Score          int        `json:"score"`
	DecidedBy      string     `json:"decided_by,omitempty"`
	DeciderRole    string     `json:"decider_role,omitempty"`
	DecisionReason string     `json:"decision_reason,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}

func toDTO(a *domain.Application, reused bool) *ApplicationDTO {
	return &ApplicationDTO{
		AppID:          a.AppID,
		UserID:         a.UserID,
		LoanType:       string(a.LoanType),
		LoanAmount:     a.LoanAmount,
		TenureMonths:   a.TenureMonths,
		Score:          a.Score,
		SystemDecision: string(a.SystemDecision),
		Status:         string(a.Status),
		Escalated:      a.Escalated,
		AppliedAt:      a.AppliedAt,
		Reused:         reused,
	}
}

func toDecisionDTO(a *domain.Application) *DecisionDTO {
	return &DecisionDTO{
		AppID:          a.AppID,
		UserID:         a.UserID,
		Status:         string(a.Status),
		SystemDecision: string(a.SystemDecision),
		Score:          a.Score,
		DecidedBy:      a.DecidedBy,
		DeciderRole:    a.DeciderRole,
		DecisionReason: a.DecisionReason,
		DecidedAt:      a.DecidedAt,
	}
}
