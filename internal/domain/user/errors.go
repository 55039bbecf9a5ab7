package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmailTaken        = errors.New("email already exists")

	ErrResetRequestNotFound = errors.New("password reset request not found")
	ErrResetRequestUsed     = errors.New("password reset request has already been used")
)
