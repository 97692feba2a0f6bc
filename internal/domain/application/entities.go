package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the application's lifecycle state. Transitions are one-directional;
// see the repository's TransitionStatus contract.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusApproved      Status = "APPROVED"
	StatusRejected      Status = "REJECTED"
	StatusEscalated     Status = "ESCALATED"
	StatusAdminApproved Status = "ADMIN_APPROVED"
	StatusAdminRejected Status = "ADMIN_REJECTED"
	StatusFinalized     Status = "FINALIZED"
)

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusAdminRejected, StatusFinalized:
		return true
	}
	return false
}

// SystemDecision is the automated triage outcome fixed at creation time.
// It is never recomputed.
type SystemDecision string

const (
	DecisionAutoApproved SystemDecision = "AUTO_APPROVED"
	DecisionManualReview SystemDecision = "MANUAL_REVIEW"
	DecisionAutoRejected SystemDecision = "AUTO_REJECTED"
)

type LoanType string

const (
	LoanTypePersonal  LoanType = "PERSONAL"
	LoanTypeHome      LoanType = "HOME"
	LoanTypeAuto      LoanType = "AUTO"
	LoanTypeEducation LoanType = "EDUCATION"
)

type Application struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex)
	AppID  string `gorm:"column:app_id;size:32;uniqueIndex:ux_applications_app_id" json:"app_id"`
	UserID string `gorm:"column:user_id;size:32;index:idx_applications_user" json:"user_id"`

	LoanType     LoanType        `gorm:"column:loan_type;size:16" json:"loan_type"`
	LoanAmount   decimal.Decimal `gorm:"column:loan_amount;type:decimal(18,2)" json:"loan_amount"`
	TenureMonths int             `gorm:"column:tenure_months" json:"tenure_months"`
	Reason       string          `gorm:"column:reason;type:text" json:"reason"`

	// Applicant-declared financial signals captured at creation time.
	MonthlyIncome           decimal.Decimal `gorm:"column:monthly_income;type:decimal(18,2)" json:"monthly_income"`
	Occupation              string          `gorm:"column:occupation;size:64" json:"occupation"`
	PriorLoanCount          int             `gorm:"column:prior_loan_count" json:"prior_loan_count"`
	PendingInstallmentCount int             `gorm:"column:pending_installment_count" json:"pending_installment_count"`
	IncomeSlipURL           string          `gorm:"column:income_slip_url;type:text" json:"income_slip_url"`

	// Computed once at creation; never recomputed afterwards.
	Score          int            `gorm:"column:score" json:"score"`
	SystemDecision SystemDecision `gorm:"column:system_decision;size:16" json:"system_decision"`

	Status    Status `gorm:"column:status;size:16;index:idx_applications_status" json:"status"`
	Escalated bool   `gorm:"column:escalated" json:"escalated"`

	DecidedBy      string     `gorm:"column:decided_by;size:32" json:"decided_by,omitempty"`
	DeciderRole    string     `gorm:"column:decider_role;size:16" json:"decider_role,omitempty"`
	DecisionReason string     `gorm:"column:decision_reason;type:text" json:"decision_reason,omitempty"`
	DecidedAt      *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`

	// Caller-supplied key; the unique index is what makes creation idempotent
	// under concurrent duplicate submissions.
	IdempotencyKey string `gorm:"column:idempotency_key;size:64;uniqueIndex:ux_applications_idem_key" json:"-"`

	AppliedAt time.Time `gorm:"column:applied_at" json:"applied_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Application) TableName() string { return "loan_applications" }

// Transition carries everything a status change writes alongside the new
// status itself.
type Transition struct {
	To             Status
	DecidedBy      string
	DeciderRole    string
	DecisionReason string
	DecidedAt      time.Time
	MarkEscalated  bool
}
