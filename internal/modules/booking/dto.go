package booking

import "time"

type CreateBookingRequest struct {
	RoomID          int64     `json:"room_id" binding:"required"`
	CheckIn         time.Time `json:"check_in" binding:"required"`
	CheckOut        time.Time `json:"check_out" binding:"required"`
	Adults          int       `json:"adults" binding:"required"`
	Children        int       `json:"children"`
	PaymentMethod   string    `json:"payment_method"`
	SpecialRequests string    `json:"special_requests"`
}

type UpdateDatesRequest struct {
	CheckIn  time.Time `json:"check_in" binding:"required"`
	CheckOut time.Time `json:"check_out" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
