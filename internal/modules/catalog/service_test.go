package catalog

import (
	"context"
	"testing"

	"hotelbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomStore) List(ctx context.Context, limit, offset int) ([]domain.Room, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomStore) SetAvailability(ctx context.Context, id int64, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

func TestGetRoom_Success(t *testing.T) {
	store := new(MockRoomStore)
	store.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.Room{ID: 3, Name: "Garden Suite", PricePerNight: 210, IsAvailable: true}, nil)

	svc := NewService(store)

	room, err := svc.GetRoom(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Garden Suite", room.Name)
}

func TestGetRoom_NotFound(t *testing.T) {
	store := new(MockRoomStore)
	store.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(store)

	_, err := svc.GetRoom(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRooms_ClampsPagination(t *testing.T) {
	store := new(MockRoomStore)
	store.On("List", mock.Anything, 20, 0).Return([]domain.Room{{ID: 1}}, nil)

	svc := NewService(store)

	rooms, err := svc.ListRooms(context.Background(), 5000, -3)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	store.AssertExpectations(t)
}

func TestSetAvailability_NotFound(t *testing.T) {
	store := new(MockRoomStore)
	store.On("SetAvailability", mock.Anything, int64(42), false).Return(gorm.ErrRecordNotFound)

	svc := NewService(store)

	err := svc.SetAvailability(context.Background(), 42, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAvailability_Success(t *testing.T) {
	store := new(MockRoomStore)
	store.On("SetAvailability", mock.Anything, int64(42), true).Return(nil)

	svc := NewService(store)

	require.NoError(t, svc.SetAvailability(context.Background(), 42, true))
	store.AssertExpectations(t)
}
