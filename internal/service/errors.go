package service

import "errors"

var (
	ErrUserAlreadyExists        = errors.New("user with this email already exists")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrAccountNotFound          = errors.New("account not found")
	ErrInvalidOTP               = errors.New("invalid OTP")
	ErrOTPExpired               = errors.New("OTP expired")
	ErrRateLimited              = errors.New("too many attempts, try again later")
	ErrInvalidCiphertext        = errors.New("invalid encrypted text")
	ErrPasswordTooLong          = errors.New("password must be at most 72 bytes")
)
