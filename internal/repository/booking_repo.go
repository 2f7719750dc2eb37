package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingRepository is the persistence gateway for bookings and the room
// rows they lock. All methods run against r.db, which is either the root
// connection or a transaction handle produced by WithTransaction.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTransaction runs fn against a repository bound to a single
// transaction. The availability check and the subsequent insert/update
// must both go through the repository passed to fn.
func (r *BookingRepository) WithTransaction(ctx context.Context, fn func(tx BookingStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingRepository{db: tx})
	})
}

func (r *BookingRepository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomForUpdate loads the room under a row lock so concurrent
// check-then-insert sequences for the same room serialize. SQLite has no
// FOR UPDATE; its single-writer transactions already serialize the path.
func (r *BookingRepository) GetRoomForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var room domain.Room
	if err := q.First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// CountOverlapping counts non-cancelled bookings on the room whose
// [check_in, check_out) range intersects the given one. excludeID skips the
// booking's own row when re-checking a date change.
func (r *BookingRepository) CountOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", domain.BookingCancelled).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// UpdateStatus is a single guarded UPDATE: the WHERE clause pins the
// current status, so a row that transitioned concurrently is left alone
// and the caller sees matched=false.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, cancelledAt *time.Time, reason string) (bool, error) {
	updates := map[string]any{"status": to}
	if cancelledAt != nil {
		updates["cancelled_at"] = cancelledAt
		updates["cancellation_reason"] = reason
	}

	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("booking_code = ?", code).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	q := r.db.WithContext(ctx).Order("check_in DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}
