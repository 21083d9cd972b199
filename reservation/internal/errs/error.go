package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("reservation not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrClientRequired     = errors.New("clientId is required")
	ErrInvalidReservation = errors.New("invalid reservation dates or party size")
	ErrForbidden          = errors.New("operation is not permitted")
)
