package services

import "errors"

var (
	// ErrInvalidInput wraps every rejected field value; the wrapping message names the field.
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("please use a different username")
	ErrEmailTaken         = errors.New("please use a different email address")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)
