package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionEMI     TransactionType = "EMI"
	TransactionPenalty TransactionType = "PENALTY"
	TransactionRefund  TransactionType = "REFUND"
	TransactionDeposit TransactionType = "DEPOSIT"
)

type TransactionStatus string

const (
	TransactionPaid      TransactionStatus = "PAID"
	TransactionCompleted TransactionStatus = "COMPLETED"
)

type Account struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	UserID    string          `gorm:"column:user_id;size:32;uniqueIndex:ux_accounts_user" json:"user_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(18,2)" json:"balance"`
	Status    string          `gorm:"column:status;size:16" json:"status"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Account) TableName() string { return "accounts" }

// Transaction is an append-only ledger entry; rows are never mutated after
// creation.
type Transaction struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionID string          `gorm:"column:transaction_id;size:64;uniqueIndex:ux_transactions_txn_id" json:"transaction_id"`
	LoanID        string          `gorm:"column:loan_id;size:32;index:idx_transactions_loan" json:"loan_id,omitempty"`
	UserID        string          `gorm:"column:user_id;size:32;index:idx_transactions_user" json:"user_id"`
	EMINumber     int             `gorm:"column:emi_number" json:"emi_number,omitempty"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Type          TransactionType `gorm:"column:type;size:16" json:"type"`
	Status        TransactionStatus `gorm:"column:status;size:16" json:"status"`
	// Balance snapshot immediately after this event was applied.
	BalanceAfter decimal.Decimal `gorm:"column:balance_after;type:decimal(18,2)" json:"balance_after"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "loan_transactions" }
