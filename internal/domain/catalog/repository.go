package catalog

import (
	"context"

	"github.com/google/uuid"
)

// OfferingRepository persists the service catalog.
type OfferingRepository interface {
	Create(ctx context.Context, o *Offering) error
	GetByID(ctx context.Context, id uuid.UUID) (*Offering, error)
	// List returns matches newest first.
	List(ctx context.Context, filter OfferingFilter) ([]*Offering, error)
	Update(ctx context.Context, o *Offering) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ToggleAvailability flips IsAvailable in place and returns the result.
	ToggleAvailability(ctx context.Context, id uuid.UUID) (*Offering, error)
}

// BookingRepository persists service bookings keyed by reference.
type BookingRepository interface {
	// Create returns ErrReferenceTaken when the reference is in use.
	Create(ctx context.Context, b *Booking) error
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	// List returns matches by preferred date, latest first.
	List(ctx context.Context, filter BookingFilter) ([]*Booking, error)
	UpdateStatus(ctx context.Context, reference string, status BookingStatus) (*Booking, error)
	// Cancel cancels a booking that is not yet final. It returns
	// ErrBookingNotFound for an unknown reference and ErrNoMatch otherwise.
	Cancel(ctx context.Context, reference string) (*Booking, error)
}
