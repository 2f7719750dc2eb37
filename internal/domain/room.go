package domain

import "time"

type Room struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`

	PricePerNight float64 `json:"price_per_night" validate:"required,gte=0"`

	// Operator kill switch, independent of bookings. A disabled room
	// rejects new reservations but keeps its existing ones.
	IsAvailable bool `json:"is_available" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
