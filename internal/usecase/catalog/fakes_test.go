package catalog

import (
	"context"
	domainCatalog "estate-brokerage/internal/domain/catalog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryOfferings struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domainCatalog.Offering
}

func newMemoryOfferings() *memoryOfferings {
	return &memoryOfferings{items: make(map[uuid.UUID]*domainCatalog.Offering)}
}

func (r *memoryOfferings) Create(_ context.Context, o *domainCatalog.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *o
	r.items[o.ID] = &c
	return nil
}

func (r *memoryOfferings) GetByID(_ context.Context, id uuid.UUID) (*domainCatalog.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return nil, domainCatalog.ErrOfferingNotFound
	}
	c := *o
	return &c, nil
}

func (r *memoryOfferings) List(_ context.Context, f domainCatalog.OfferingFilter) ([]*domainCatalog.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domainCatalog.Offering
	for _, o := range r.items {
		switch {
		case f.Category != "" && o.Category != f.Category,
			f.PricingType != "" && o.Pricing.Type != f.PricingType,
			f.IsAvailable != nil && o.IsAvailable != *f.IsAvailable,
			f.EstimateRequired != nil && o.EstimateRequired != *f.EstimateRequired:
			continue
		}
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryOfferings) Update(_ context.Context, o *domainCatalog.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[o.ID]; !ok {
		return domainCatalog.ErrOfferingNotFound
	}
	c := *o
	r.items[o.ID] = &c
	return nil
}

func (r *memoryOfferings) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domainCatalog.ErrOfferingNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryOfferings) ToggleAvailability(_ context.Context, id uuid.UUID) (*domainCatalog.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return nil, domainCatalog.ErrOfferingNotFound
	}
	o.IsAvailable = !o.IsAvailable
	c := *o
	return &c, nil
}

// memoryBookings mirrors the guarded cancel of the database backends.
type memoryBookings struct {
	mu    sync.Mutex
	items map[string]*domainCatalog.Booking
	// taken is the number of upcoming creates to reject as duplicates.
	taken int
}

func newMemoryBookings() *memoryBookings {
	return &memoryBookings{items: make(map[string]*domainCatalog.Booking)}
}

func (r *memoryBookings) Create(_ context.Context, b *domainCatalog.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[b.Reference]; ok || r.taken > 0 {
		r.taken--
		return domainCatalog.ErrReferenceTaken
	}
	c := *b
	r.items[b.Reference] = &c
	return nil
}

func (r *memoryBookings) GetByReference(_ context.Context, reference string) (*domainCatalog.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[reference]
	if !ok {
		return nil, domainCatalog.ErrBookingNotFound
	}
	c := *b
	return &c, nil
}

func (r *memoryBookings) List(_ context.Context, f domainCatalog.BookingFilter) ([]*domainCatalog.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domainCatalog.Booking
	for _, b := range r.items {
		switch {
		case f.ServiceType != "" && b.ServiceType != f.ServiceType,
			f.Status != "" && b.Status != f.Status,
			f.PhoneNumber != "" && b.PhoneNumber != f.PhoneNumber,
			f.Date != nil && !b.PreferredDate.Equal(*f.Date):
			continue
		}
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PreferredDate.After(out[j].PreferredDate) })
	return out, nil
}

func (r *memoryBookings) UpdateStatus(_ context.Context, reference string, status domainCatalog.BookingStatus) (*domainCatalog.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[reference]
	if !ok {
		return nil, domainCatalog.ErrBookingNotFound
	}
	b.Status = status
	c := *b
	return &c, nil
}

func (r *memoryBookings) Cancel(_ context.Context, reference string) (*domainCatalog.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[reference]
	if !ok {
		return nil, domainCatalog.ErrBookingNotFound
	}
	if b.Status.Final() {
		return nil, domainCatalog.ErrNoMatch
	}
	b.Status = domainCatalog.BookingCancelled
	c := *b
	return &c, nil
}
