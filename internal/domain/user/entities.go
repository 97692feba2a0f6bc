package user

import (
	"context"
	"errors"
	"time"
)

type KYCStatus string

const (
	KYCPending   KYCStatus = "PENDING"
	KYCCompleted KYCStatus = "COMPLETED"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

var ErrNotFound = errors.New("user not found")

// User carries only the credit-relevant subset; identity, KYC documents and
// credentials live outside this core.
type User struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	UserID string `gorm:"column:user_id;size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name   string `gorm:"column:name;size:128" json:"name"`

	Occupation     string         `gorm:"column:occupation;size:64" json:"occupation"`
	IsMinor        bool           `gorm:"column:is_minor" json:"is_minor"`
	KYCStatus      KYCStatus      `gorm:"column:kyc_status;size:16" json:"kyc_status"`
	ApprovalStatus ApprovalStatus `gorm:"column:approval_status;size:16" json:"approval_status"`

	// Running credit score, recomputed reactively after every settlement
	// attempt rather than on a fixed schedule.
	CIBILScore     int        `gorm:"column:cibil_score" json:"cibil_score"`
	CIBILUpdatedAt *time.Time `gorm:"column:cibil_updated_at" json:"cibil_updated_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*User, error)
	UpdateCIBIL(ctx context.Context, userID string, score int, at time.Time) error
}
