package user

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrUsernameTaken = errors.New("username is already registered")

	// ErrNoMatch is returned by conditional updates whose guard did not hold.
	ErrNoMatch = errors.New("no user matched the expected state")
)
