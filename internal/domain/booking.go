package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// allowedTransitions is the booking state machine. "cancelled" and
// "completed" are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingCompleted},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

func CanTransition(from, to BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	BookingCode string `json:"booking_code" gorm:"size:36;uniqueIndex;not null"`

	// UserID/RoomID are set null when the referenced row is deleted;
	// the booking itself is never physically deleted.
	UserID *int64 `json:"user_id" gorm:"index"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	RoomID *int64 `json:"room_id" gorm:"index"`
	Room   *Room  `json:"room,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:SET NULL"`

	// Half-open range: the check-out day itself is not occupied.
	CheckIn  time.Time `json:"check_in" gorm:"index;not null"`
	CheckOut time.Time `json:"check_out" gorm:"not null"`
	Nights   int       `json:"nights"`

	Adults   int `json:"adults"`
	Children int `json:"children"`

	BasePrice  float64 `json:"base_price"`
	Fees       float64 `json:"fees"`
	TotalPrice float64 `json:"total_price"`

	Status        BookingStatus `json:"status" gorm:"size:16;index"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"size:16"`
	PaymentMethod string        `json:"payment_method,omitempty" gorm:"size:32"`

	SpecialRequests string `json:"special_requests,omitempty" gorm:"type:text"`

	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
}

func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID != nil && *b.UserID == userID
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Ranges that merely touch are not overlapping.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NightsBetween counts whole nights between two check dates.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
