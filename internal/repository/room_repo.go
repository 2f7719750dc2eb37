package repository

import (
	"context"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context, limit, offset int) ([]domain.Room, error) {
	var out []domain.Room
	err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

// SetAvailability flips the operator kill switch. Existing bookings are
// untouched.
func (r *RoomRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	tx := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", id).
		Update("is_available", available)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
