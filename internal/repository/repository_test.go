package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Each test gets its own named in-memory database so state never leaks
// between tests while gorm's connection pool still sees one schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUserAndRoom(t *testing.T, db *gorm.DB) (*domain.User, *domain.Room) {
	t.Helper()

	user := &domain.User{Email: "guest@example.com", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, db.Create(user).Error)

	room := &domain.Room{Name: "Sea View", Capacity: 2, PricePerNight: 150, IsAvailable: true}
	require.NoError(t, db.Create(room).Error)

	return user, room
}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func newBooking(user *domain.User, room *domain.Room, code string, in, out time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		BookingCode: code,
		UserID:      &user.ID,
		RoomID:      &room.ID,
		CheckIn:     in,
		CheckOut:    out,
		Nights:      domain.NightsBetween(in, out),
		Adults:      2,
		Status:      status,
	}
}

func TestBookingRepository_CreateAndFetch(t *testing.T) {
	db := setupTestDB(t)
	user, room := seedUserAndRoom(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := newBooking(user, room, "code-1", day(1), day(4), domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b))
	require.NotZero(t, b.ID)

	byID, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "code-1", byID.BookingCode)

	byCode, err := repo.GetByCode(ctx, "code-1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byCode.ID)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepository_CountOverlapping(t *testing.T) {
	db := setupTestDB(t)
	user, room := seedUserAndRoom(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	existing := newBooking(user, room, "code-1", day(10), day(13), domain.BookingConfirmed)
	require.NoError(t, repo.Create(ctx, existing))

	n, err := repo.CountOverlapping(ctx, room.ID, day(12), day(15), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// A range that only touches the check-out day is free.
	n, err = repo.CountOverlapping(ctx, room.ID, day(13), day(16), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// A booking never conflicts with itself.
	n, err = repo.CountOverlapping(ctx, room.ID, day(11), day(14), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBookingRepository_CancelledBookingsIgnored(t *testing.T) {
	db := setupTestDB(t)
	user, room := seedUserAndRoom(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	cancelled := newBooking(user, room, "code-1", day(10), day(13), domain.BookingCancelled)
	require.NoError(t, repo.Create(ctx, cancelled))

	n, err := repo.CountOverlapping(ctx, room.ID, day(10), day(13), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBookingRepository_Listings(t *testing.T) {
	db := setupTestDB(t)
	user, room := seedUserAndRoom(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newBooking(user, room, "c1", day(1), day(2), domain.BookingPending)))
	require.NoError(t, repo.Create(ctx, newBooking(user, room, "c2", day(3), day(4), domain.BookingConfirmed)))
	require.NoError(t, repo.Create(ctx, newBooking(user, room, "c3", day(5), day(6), domain.BookingConfirmed)))

	mine, err := repo.ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	confirmed, err := repo.ListByStatus(ctx, domain.BookingConfirmed, 10, 0)
	require.NoError(t, err)
	assert.Len(t, confirmed, 2)

	page, err := repo.ListByUser(ctx, user.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestBookingRepository_UpdateStatusGuardsCurrentStatus(t *testing.T) {
	db := setupTestDB(t)
	user, room := seedUserAndRoom(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := newBooking(user, room, "code-1", day(1), day(4), domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b))

	// Guard mismatch: the row is pending, not confirmed. Nothing changes.
	matched, err := repo.UpdateStatus(ctx, b.ID, domain.BookingConfirmed, domain.BookingCompleted, nil, "")
	require.NoError(t, err)
	assert.False(t, matched)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, got.Status)

	matched, err = repo.UpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, nil, "")
	require.NoError(t, err)
	assert.True(t, matched)

	now := time.Now().UTC()
	matched, err = repo.UpdateStatus(ctx, b.ID, domain.BookingConfirmed, domain.BookingCancelled, &now, "overbooked")
	require.NoError(t, err)
	assert.True(t, matched)

	got, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
	assert.Equal(t, "overbooked", got.CancellationReason)
}

func TestBookingRepository_TransactionRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	user, room := seedUserAndRoom(t, db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx BookingStore) error {
		if err := tx.Create(ctx, newBooking(user, room, "doomed", day(1), day(2), domain.BookingPending)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByCode(ctx, "doomed")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepository_SetAvailability(t *testing.T) {
	db := setupTestDB(t)
	_, room := seedUserAndRoom(t, db)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SetAvailability(ctx, room.ID, false))

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)

	err = repo.SetAvailability(ctx, 9999, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_EmailLookupIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "ann@example.com", PasswordHash: "x", Role: domain.RoleUser}))

	got, err := repo.GetByEmail(ctx, "Ann@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)

	exists, err := repo.ExistsByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRefreshTokenRepository_RotationLineage(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUserAndRoom(t, db)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	old := &domain.RefreshToken{UserID: user.ID, TokenHash: "hash-old", ExpiresAt: day(30)}
	require.NoError(t, repo.Create(ctx, old))

	replacement := &domain.RefreshToken{UserID: user.ID, TokenHash: "hash-new", ExpiresAt: day(30)}

	err := repo.WithTransaction(ctx, func(tx TokenStore) error {
		if err := tx.Create(ctx, replacement); err != nil {
			return err
		}
		return tx.Revoke(ctx, old.ID, &replacement.ID)
	})
	require.NoError(t, err)

	got, err := repo.GetByHash(ctx, "hash-old")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked())
	require.NotNil(t, got.ReplacedByID)
	assert.Equal(t, replacement.ID, *got.ReplacedByID)
}

func TestRefreshTokenRepository_RevokeByUserAndPurge(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUserAndRoom(t, db)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	live := &domain.RefreshToken{UserID: user.ID, TokenHash: "hash-live", ExpiresAt: time.Now().Add(time.Hour)}
	stale := &domain.RefreshToken{UserID: user.ID, TokenHash: "hash-stale", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))

	require.NoError(t, repo.RevokeByUser(ctx, user.ID))
	got, err := repo.GetByHash(ctx, "hash-live")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked())

	require.NoError(t, repo.DeleteExpired(ctx))
	_, err = repo.GetByHash(ctx, "hash-stale")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByHash(ctx, "hash-live")
	require.NoError(t, err)
}

func TestPasswordResetRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUserAndRoom(t, db)
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()

	reset := &domain.PasswordReset{UserID: user.ID, TokenHash: "reset-hash", ExpiresAt: time.Now().Add(30 * time.Minute)}
	require.NoError(t, repo.Create(ctx, reset))

	got, err := repo.GetByHash(ctx, "reset-hash")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)

	require.NoError(t, repo.DeleteByUser(ctx, user.ID))
	_, err = repo.GetByHash(ctx, "reset-hash")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
