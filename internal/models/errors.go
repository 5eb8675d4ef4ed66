package models

import "errors"

// Custom errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrInvalidID         = errors.New("invalid ID format")
	ErrDataUnavailable   = errors.New("prediction data unavailable")
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
)
