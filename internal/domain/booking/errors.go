package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrRoomNotFound      = errors.New("room not found or unavailable")
	ErrValidation        = errors.New("validation error")
	ErrNotAvailable      = errors.New("room is not available for the selected dates")
	ErrAlreadyConfirmed  = errors.New("this booking has already been confirmed")
	ErrCancelled         = errors.New("this booking has been cancelled")
	ErrExpired           = errors.New("this booking has expired, please create a new reservation")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrNotConfirmed      = errors.New("booking is not confirmed")
	ErrReferenceConflict = errors.New("booking reference already taken, please retry")
	ErrCodeConflict      = errors.New("could not issue a unique verification code, please retry")
	ErrEmailFailed       = errors.New("failed to send email")
)

// ValidationError carries per-field failures alongside ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation error" }

func (e *ValidationError) Unwrap() error { return ErrValidation }
