package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service owns the booking lifecycle: creation, date changes, cancellation
// and status transitions. Every check-then-write sequence runs inside one
// store transaction with the room row locked, so concurrent requests for
// the same room serialize at the store.
type Service struct {
	store Store
	cfg   config.BookingConfig
}

func NewService(store Store, cfg config.BookingConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// quote derives nights and money once, at creation or date-change time.
// Nothing downstream recomputes these.
func (s *Service) quote(pricePerNight float64, checkIn, checkOut time.Time) (nights int, base, fees, total float64) {
	nights = domain.NightsBetween(checkIn, checkOut)
	base = round2(pricePerNight * float64(nights))
	fees = round2(base * s.cfg.ServiceFeeRate)
	total = round2(base + fees)
	return nights, base, fees, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizeDay truncates a check date to UTC midnight. Booking ranges are
// whole days; any sub-day precision a client sends is discarded before
// validation, so an intraday range collapses to an empty one and fails.
func normalizeDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateRange(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() || !checkIn.Before(checkOut) {
		return ErrValidation
	}
	if domain.NightsBetween(checkIn, checkOut) < 1 {
		return ErrValidation
	}
	return nil
}

// isAvailable runs the half-open overlap test against the store the caller
// hands in. Callers on the write path pass the transaction-bound store so
// the check and the insert/update cannot be split by a concurrent commit.
func isAvailable(ctx context.Context, store Store, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error) {
	cnt, err := store.CountOverlapping(ctx, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return cnt == 0, nil
}

// CheckAvailability is the public read wrapper; no authentication and no
// side effects. A disabled room reports unavailable, a missing one is
// ErrNotFound.
func (s *Service) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	checkIn, checkOut = normalizeDay(checkIn), normalizeDay(checkOut)
	if err := validateRange(checkIn, checkOut); err != nil {
		return false, err
	}

	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if !room.IsAvailable {
		return false, nil
	}

	return isAvailable(ctx, s.store, roomID, checkIn, checkOut, 0)
}

// Create reserves the room for [checkIn, checkOut). The room row is locked
// for the duration of the transaction, so of N concurrent creates for
// overlapping dates exactly one commits; the rest observe the winner's row
// and fail with ErrRoomUnavailable.
func (s *Service) Create(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	checkIn, checkOut := normalizeDay(req.CheckIn), normalizeDay(req.CheckOut)
	if err := validateRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	if req.Adults < 1 || req.Children < 0 {
		return nil, ErrValidation
	}

	var created *domain.Booking
	err := s.store.WithTransaction(ctx, func(tx Store) error {
		room, err := tx.GetRoomForUpdate(ctx, req.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !room.IsAvailable {
			return ErrRoomUnavailable
		}

		free, err := isAvailable(ctx, tx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if !free {
			return ErrRoomUnavailable
		}

		nights, base, fees, total := s.quote(room.PricePerNight, checkIn, checkOut)

		status := domain.BookingPending
		if s.cfg.AutoConfirm {
			status = domain.BookingConfirmed
		}

		roomID := room.ID
		uid := userID
		b := &domain.Booking{
			BookingCode:     uuid.NewString(),
			UserID:          &uid,
			RoomID:          &roomID,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			Nights:          nights,
			Adults:          req.Adults,
			Children:        req.Children,
			BasePrice:       base,
			Fees:            fees,
			TotalPrice:      total,
			Status:          status,
			PaymentStatus:   domain.PaymentPending,
			PaymentMethod:   req.PaymentMethod,
			SpecialRequests: req.SpecialRequests,
		}
		if err := tx.Create(ctx, b); err != nil {
			return mapStoreError(err)
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateDates moves a booking to a new date range. Only the owning user or
// an admin may do this; the ownership check happens before any transaction
// opens, so a forbidden caller performs no write.
func (s *Service) UpdateDates(ctx context.Context, bookingID, actorID int64, actorRole domain.UserRole, newCheckIn, newCheckOut time.Time) (*domain.Booking, error) {
	newCheckIn, newCheckOut = normalizeDay(newCheckIn), normalizeDay(newCheckOut)
	if err := validateRange(newCheckIn, newCheckOut); err != nil {
		return nil, err
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actorID) && actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	if b.Status == domain.BookingCompleted {
		return nil, ErrInvalidTransition
	}
	if b.CheckIn.Equal(newCheckIn) && b.CheckOut.Equal(newCheckOut) {
		return b, nil
	}
	if b.RoomID == nil {
		return nil, ErrNotFound
	}

	var updated *domain.Booking
	err = s.store.WithTransaction(ctx, func(tx Store) error {
		room, err := tx.GetRoomForUpdate(ctx, *b.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		cur, err := tx.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if cur.Status == domain.BookingCancelled {
			return ErrAlreadyCancelled
		}

		free, err := isAvailable(ctx, tx, room.ID, newCheckIn, newCheckOut, cur.ID)
		if err != nil {
			return err
		}
		if !free {
			return ErrRoomUnavailable
		}

		nights, base, fees, total := s.quote(room.PricePerNight, newCheckIn, newCheckOut)
		cur.CheckIn = newCheckIn
		cur.CheckOut = newCheckOut
		cur.Nights = nights
		cur.BasePrice = base
		cur.Fees = fees
		cur.TotalPrice = total

		if err := tx.Update(ctx, cur); err != nil {
			return mapStoreError(err)
		}
		updated = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel applies the *->cancelled transition. Cancelling twice is an
// explicit error, never a silent success.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64, actorRole domain.UserRole, reason string) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actorID) && actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !domain.CanTransition(b.Status, domain.BookingCancelled) {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	matched, err := s.store.UpdateStatus(ctx, b.ID, b.Status, domain.BookingCancelled, &now, reason)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !matched {
		// Someone transitioned the row between our read and the write.
		return nil, ErrConflict
	}

	b.Status = domain.BookingCancelled
	b.CancelledAt = &now
	b.CancellationReason = reason
	return b, nil
}

// SetStatus applies an arbitrary transition from the allowed table.
// Admin only.
func (s *Service) SetStatus(ctx context.Context, bookingID int64, actorRole domain.UserRole, newStatus domain.BookingStatus) (*domain.Booking, error) {
	if actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	switch newStatus {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
	default:
		return nil, ErrValidation
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if newStatus == domain.BookingCancelled && b.Status == domain.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !domain.CanTransition(b.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	var cancelledAt *time.Time
	if newStatus == domain.BookingCancelled {
		now := time.Now().UTC()
		cancelledAt = &now
	}

	matched, err := s.store.UpdateStatus(ctx, b.ID, b.Status, newStatus, cancelledAt, "")
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !matched {
		return nil, ErrConflict
	}

	b.Status = newStatus
	if cancelledAt != nil {
		b.CancelledAt = cancelledAt
	}
	return b, nil
}

// GetForActor returns a booking the actor may see (owner or admin).
func (s *Service) GetForActor(ctx context.Context, bookingID, actorID int64, actorRole domain.UserRole) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actorID) && actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	return s.store.ListByUser(ctx, userID, normalizeLimit(limit), offset)
}

func (s *Service) ListByStatus(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return s.store.ListByStatus(ctx, status, normalizeLimit(limit), offset)
}

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

// mapStoreError turns constraint and serialization failures into the
// module's error kinds. 23P01 is the range exclusion constraint on
// bookings, 23505 the unique booking code, 40001 a serialization loser.
func mapStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01":
			if pgErr.ConstraintName == "idx_no_double_booking" {
				return ErrRoomUnavailable
			}
			return ErrConflict
		case "23505":
			return ErrConflict
		case "40001":
			return ErrConflict
		}
	}
	return err
}
