package contact

import "context"

// Repository persists contact messages keyed by reference.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByReference(ctx context.Context, reference string) (*Message, error)
	// List returns matches newest first.
	List(ctx context.Context, filter Filter) ([]*Message, error)
	UpdateStatus(ctx context.Context, reference string, status Status) (*Message, error)
	Delete(ctx context.Context, reference string) error
}
