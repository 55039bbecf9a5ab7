package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials      = errors.New("email or password is incorrect")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrUnauthorized            = errors.New("unauthorized access")
	ErrForbidden               = errors.New("access denied")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmailTaken        = errors.New("email already exists")

	ErrCarNotFound      = errors.New("car not found")
	ErrCarAlreadyExists = errors.New("a car with this make and model already exists")

	ErrInvalidInput      = errors.New("invalid input data")
	ErrInvalidEmail      = errors.New("invalid or missing email format")
	ErrWeakPassword      = errors.New("password does not meet requirements")
	ErrPasswordReused    = errors.New("new password must be different from the current password")
	ErrInvalidOTP        = errors.New("invalid or expired OTP code")
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")

	ErrUpstream           = errors.New("upstream service error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeWeakPassword = "WEAK_PASSWORD"
	CodeInvalidInput = "INVALID_INPUT"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation wraps a validator error as the 400 VALIDATION_ERROR kind.
func Validation(err error) *AppError {
	return NewAppError(CodeValidation, "Invalid input", err)
}
