package domain

import "errors"

var (
	ErrInvalidName           = errors.New("name must be at least 2 characters")
	ErrInvalidEmail          = errors.New("email is required")
	ErrInvalidEmailFormat    = errors.New("email format is invalid")
	ErrInvalidPasswordFormat = errors.New("password does not meet the password policy")
	ErrMissingFaceImage      = errors.New("face image is required")
	ErrEmailTaken            = errors.New("email already registered")
	ErrFaceAlreadyRegistered = errors.New("this face is already registered to another account")
	ErrUserNotFound          = errors.New("user not found")
	ErrAlreadyVerified       = errors.New("account already verified")
	ErrCodeExpired           = errors.New("verification code has expired")
	ErrInvalidCode           = errors.New("invalid verification code")
	ErrNotVerified           = errors.New("account not verified")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrFaceMismatch          = errors.New("face did not match")
	ErrTooManyAttempts       = errors.New("too many signup attempts, please try again later")
	ErrSessionNotFound       = errors.New("session not found")
)
