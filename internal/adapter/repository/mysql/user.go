package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	userDomain "loancore/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) UpdateCIBIL(ctx context.Context, userID string, score int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"cibil_score":      score,
			"cibil_updated_at": at,
		}).Error
}
