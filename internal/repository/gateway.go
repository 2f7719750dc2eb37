package repository

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
)

// BookingStore is the persistence gateway the booking service works
// against. WithTransaction hands the callback a store bound to one
// transaction; the availability check and the write that follows it must
// both use that store.
type BookingStore interface {
	WithTransaction(ctx context.Context, fn func(tx BookingStore) error) error

	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	GetRoomForUpdate(ctx context.Context, id int64) (*domain.Room, error)
	CountOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int64, error)

	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	// UpdateStatus applies a single guarded status write; it reports false
	// when the row's status no longer matches from, so a concurrent
	// transition is never overwritten.
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, cancelledAt *time.Time, reason string) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
}

var _ BookingStore = (*BookingRepository)(nil)

// TokenStore is the gateway for refresh-token persistence. Rotation runs
// revoke-old/insert-new through one WithTransaction call.
type TokenStore interface {
	WithTransaction(ctx context.Context, fn func(tx TokenStore) error) error

	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	GetByHashForUpdate(ctx context.Context, hash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, id int64, replacedByID *int64) error
	RevokeByUser(ctx context.Context, userID int64) error
}

var _ TokenStore = (*RefreshTokenRepository)(nil)
