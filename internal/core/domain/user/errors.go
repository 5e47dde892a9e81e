package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidPasswordResetToken covers a token that was never issued, was already
	// consumed, has expired, or whose account no longer exists.
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
)
