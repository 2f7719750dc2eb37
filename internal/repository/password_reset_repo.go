package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, p *domain.PasswordReset) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PasswordResetRepository) GetByHash(ctx context.Context, hash string) (*domain.PasswordReset, error) {
	var p domain.PasswordReset
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteByUser drops all reset tokens for a user, called after a
// successful reset so each token is single-use.
func (r *PasswordResetRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.PasswordReset{}).Error
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.PasswordReset{}).Error
}
