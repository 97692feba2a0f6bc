package audit

import (
	"context"
	"time"
)

// Actions recorded by the core. One entry per state transition.
const (
	ActionLoanApplied      = "LOAN_APPLIED"
	ActionLoanApprove      = "LOAN_APPROVE"
	ActionLoanReject       = "LOAN_REJECT"
	ActionLoanEscalate     = "LOAN_ESCALATE"
	ActionLoanAdminApprove = "LOAN_ADMIN_APPROVE"
	ActionLoanAdminReject  = "LOAN_ADMIN_REJECT"
	ActionLoanFinalize     = "LOAN_FINALIZE"
	ActionEMIDebit         = "EMI_DEBIT"
	ActionEMIFailed        = "EMI_FAILED"
)

const (
	EntityLoanApplication = "LOAN_APPLICATION"
	EntityLoan            = "LOAN"
	EntityInstallment     = "LOAN_INSTALLMENT"
)

// Entry is an append-only audit record.
type Entry struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	ActorID    string    `gorm:"column:actor_id;size:32" json:"actor_id"`
	ActorRole  string    `gorm:"column:actor_role;size:16" json:"actor_role"`
	Action     string    `gorm:"column:action;size:32" json:"action"`
	EntityType string    `gorm:"column:entity_type;size:32" json:"entity_type"`
	EntityID   string    `gorm:"column:entity_id;size:64" json:"entity_id"`
	Remarks    string    `gorm:"column:remarks;type:text" json:"remarks"`
	Timestamp  time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (Entry) TableName() string { return "audit_logs" }

// Sink accepts append-only audit records.
type Sink interface {
	Append(ctx context.Context, e *Entry) error
}
