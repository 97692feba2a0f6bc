package loan

import (
	"time"

	"github.com/shopspring/decimal"

	domain "loancore/internal/domain/loan"
)

type FinalizeInput struct {
	ApplicationID string          `json:"-"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	TenureMonths  int             `json:"tenure_months"`
}

type LoanDTO struct {
	LoanID        string          `json:"loan_id"`
	ApplicationID string          `json:"application_id"`
	UserID        string          `json:"user_id"`
	ApprovedBy    string          `json:"approved_by"`
	ApprovedRole  string          `json:"approved_role"`
	Principal     decimal.Decimal `json:"principal"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	TenureMonths  int             `json:"tenure_months"`
	EMIAmount     decimal.Decimal `json:"emi_amount"`
	Status        string          `json:"status"`
	PaidEMIs      int             `json:"paid_emis"`
	MissedEMIs    int             `json:"missed_emis"`
	DisbursedAt   time.Time       `json:"disbursed_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

type InstallmentDTO struct {
	Sequence int             `json:"sequence"`
	DueDate  time.Time       `json:"due_date"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
	Attempts int             `json:"attempts"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
}

func toInstallmentDTO(in *domain.Installment) InstallmentDTO {
	return InstallmentDTO{
		Sequence: in.Sequence,
		DueDate:  in.DueDate,
		Amount:   in.Amount,
		Status:   string(in.Status),
		Attempts: in.Attempts,
		PaidAt:   in.PaidAt,
	}
}

func toDTO(l *domain.ActiveLoan) *LoanDTO {
	return &LoanDTO{
		LoanID:        l.LoanID,
		ApplicationID: l.ApplicationID,
		UserID:        l.UserID,
		ApprovedBy:    l.ApprovedBy,
		ApprovedRole:  l.ApprovedRole,
		Principal:     l.Principal,
		InterestRate:  l.InterestRate,
		TenureMonths:  l.TenureMonths,
		EMIAmount:     l.EMIAmount,
		Status:        string(l.Status),
		PaidEMIs:      l.PaidEMIs,
		MissedEMIs:    l.MissedEMIs,
		DisbursedAt:   l.DisbursedAt,
		ClosedAt:      l.ClosedAt,
	}
}
