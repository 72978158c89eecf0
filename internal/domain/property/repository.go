package property

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository persists listings.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	// List returns one page of matches, newest first, plus the total match count.
	List(ctx context.Context, filter Filter) ([]*Property, int64, error)
	// Update replaces every mutable field of p. It returns ErrPropertyNotFound
	// for an unknown id.
	Update(ctx context.Context, p *Property) error
	// Delete removes the listing and returns it as it was stored.
	Delete(ctx context.Context, id uuid.UUID) (*Property, error)
	// SetDiscount sets or, with a nil price, clears the discounted price.
	SetDiscount(ctx context.Context, id uuid.UUID, discounted *float64, updatedBy uuid.UUID) (*Property, error)
}

// InquiryRepository persists visitor requests about listings.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Inquiry, error)
	List(ctx context.Context, filter InquiryFilter) ([]*Inquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status InquiryStatus) (*Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageStore holds listing photos under opaque names.
type ImageStore interface {
	Save(ctx context.Context, data []byte, contentType, extension string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}
