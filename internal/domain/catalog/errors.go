package catalog

import "errors"

var (
	ErrOfferingNotFound = errors.New("service not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrReferenceTaken   = errors.New("booking reference already exists")

	// ErrNoMatch is returned by conditional updates whose guard did not hold.
	ErrNoMatch = errors.New("no booking matched the expected state")
)
