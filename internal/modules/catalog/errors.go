package catalog

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("room not found")
)
