package domain

const (
	SessionDurationMinutes = 60 * 24 * 15

	MinNameLength     = 2
	MaxNameLength     = 100
	MinPasswordLength = 8

	CodeLength        = 6
	CodeExpiryMinutes = 10

	MaxSignupAttempts        = 5
	SignupAttemptWindowHours = 1
)
