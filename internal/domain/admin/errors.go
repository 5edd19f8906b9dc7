package admin

import "errors"

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("account is deactivated")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrValidation         = errors.New("validation failed")
)
