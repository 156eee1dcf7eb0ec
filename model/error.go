package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrTooManyAttempts    = errors.New("too many login attempts, please try again later")
	ErrInternal           = errors.New("internal server error")

	ErrRefreshTokenMissing = fmt.Errorf("%w: refresh token not found", ErrUnauthorized)
	ErrRefreshTokenInvalid = fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthorized)
	ErrSessionUserNotFound = fmt.Errorf("%w: user not found", ErrUnauthorized)
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotFound)
)

// ConflictError names the unique field that collided during registration.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("user with this %s already exists", e.Field)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
