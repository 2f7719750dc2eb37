package catalog

import (
	"context"

	"hotelbooking/internal/domain"
)

type RoomStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, limit, offset int) ([]domain.Room, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}
