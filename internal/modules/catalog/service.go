package catalog

import (
	"context"
	"errors"

	"hotelbooking/internal/domain"

	"gorm.io/gorm"
)

// Service serves catalog reads and the admin availability toggle. It has
// no business rules of its own beyond error normalization.
type Service struct {
	rooms RoomStore
}

func NewService(rooms RoomStore) *Service {
	return &Service{rooms: rooms}
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, limit, offset int) ([]domain.Room, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.rooms.List(ctx, limit, offset)
}

// SetAvailability flips the operator kill switch. A disabled room keeps
// its existing bookings but rejects new ones.
func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) error {
	err := s.rooms.SetAvailability(ctx, id, available)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
