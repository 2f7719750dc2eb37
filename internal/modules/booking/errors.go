package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrRoomUnavailable   = errors.New("room unavailable")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflicting concurrent update")
)
