package mysql

import (
	"context"

	"gorm.io/gorm"

	auditDomain "loancore/internal/domain/audit"
)

// AuditRepository is the append-only sink; there is deliberately no update or
// delete path.
type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Append(ctx context.Context, e *auditDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}
