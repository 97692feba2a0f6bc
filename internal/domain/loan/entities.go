package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentFailed  InstallmentStatus = "FAILED"
)

// ActiveLoan is created exactly once, by finalization, from an application in
// the ADMIN_APPROVED state.
type ActiveLoan struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex)
	LoanID string `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	// Back-reference to the originating application; the unique index keeps
	// the relationship 1:1 even under finalize retries.
	ApplicationID string `gorm:"column:application_id;size:32;uniqueIndex:ux_loans_application_id" json:"application_id"`
	UserID        string `gorm:"column:user_id;size:32;index:idx_loans_user" json:"user_id"`

	ApprovedBy   string `gorm:"column:approved_by;size:32" json:"approved_by"`
	ApprovedRole string `gorm:"column:approved_role;size:16" json:"approved_role"`

	Principal    decimal.Decimal `gorm:"column:principal;type:decimal(18,2)" json:"principal"`
	InterestRate decimal.Decimal `gorm:"column:interest_rate;type:decimal(6,2)" json:"interest_rate"`
	TenureMonths int             `gorm:"column:tenure_months" json:"tenure_months"`
	EMIAmount    decimal.Decimal `gorm:"column:emi_amount;type:decimal(18,2)" json:"emi_amount"`

	Status Status `gorm:"column:status;size:16" json:"status"`

	// Settlement feedback counters, mutated only by the settlement run.
	PaidEMIs   int `gorm:"column:paid_emis" json:"paid_emis"`
	MissedEMIs int `gorm:"column:missed_emis" json:"missed_emis"`

	DisbursedAt time.Time  `gorm:"column:disbursed_at" json:"disbursed_at"`
	ClosedAt    *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (ActiveLoan) TableName() string { return "loans" }

// Installment is one scheduled repayment (EMI). Rows are created as a batch of
// tenure_months at finalization and mutated only by the settlement run.
type Installment struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID string `gorm:"column:loan_id;size:32;index:idx_installments_loan;uniqueIndex:ux_installments_loan_seq" json:"loan_id"`
	UserID string `gorm:"column:user_id;size:32;index:idx_installments_user" json:"user_id"`

	// 1..tenure_months
	Sequence int             `gorm:"column:sequence;uniqueIndex:ux_installments_loan_seq" json:"sequence"`
	DueDate  time.Time       `gorm:"column:due_date;index:idx_installments_due" json:"due_date"`
	Amount   decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`

	Status   InstallmentStatus `gorm:"column:status;size:16;index:idx_installments_status" json:"status"`
	Attempts int               `gorm:"column:attempts" json:"attempts"`
	PaidAt   *time.Time        `gorm:"column:paid_at" json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Installment) TableName() string { return "loan_installments" }
