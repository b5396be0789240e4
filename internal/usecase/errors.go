package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDuplicateAccount   = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")

	ErrOTPNotFound = errors.New("invalid or expired verification request")
	ErrOTPExpired  = errors.New("verification code has expired, please sign up again")
	ErrOTPLocked   = errors.New("too many failed attempts, please sign up again")
	ErrOTPInvalid  = errors.New("invalid verification code")
)

// InvalidCodeError is returned for a wrong code while attempts remain.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid verification code, %d attempt(s) remaining", e.Remaining)
}

func (e *InvalidCodeError) Unwrap() error {
	return ErrOTPInvalid
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
