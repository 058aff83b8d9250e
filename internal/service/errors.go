package service

import "errors"

var (
	// ErrInvalidTransition is returned when a status change is not draft -> completed|submitted
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrFormNotFound    = errors.New("form not found")
	ErrCountryNotFound = errors.New("country not found")
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError is a client input error; Error() is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
