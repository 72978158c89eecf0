package property

import (
	"bytes"
	"context"
	"errors"
	domainProperty "estate-brokerage/internal/domain/property"
	appErrors "estate-brokerage/pkg/errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryProperties struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domainProperty.Property
}

func newMemoryProperties() *memoryProperties {
	return &memoryProperties{items: make(map[uuid.UUID]*domainProperty.Property)}
}

func cloneProperty(p *domainProperty.Property) *domainProperty.Property {
	c := *p
	c.Amenities = append([]string(nil), p.Amenities...)
	c.Images = append([]string(nil), p.Images...)
	if p.Price.Discounted != nil {
		d := *p.Price.Discounted
		c.Price.Discounted = &d
	}
	return &c
}

func (r *memoryProperties) Create(_ context.Context, p *domainProperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = cloneProperty(p)
	return nil
}

func (r *memoryProperties) GetByID(_ context.Context, id uuid.UUID) (*domainProperty.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domainProperty.ErrPropertyNotFound
	}
	return cloneProperty(p), nil
}

func (r *memoryProperties) List(_ context.Context, f domainProperty.Filter) ([]*domainProperty.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*domainProperty.Property
	for _, p := range r.items {
		switch {
		case f.Type != "" && p.Type != f.Type,
			f.Listing != "" && p.Listing != f.Listing,
			f.City != "" && !strings.EqualFold(p.Location.City, f.City),
			f.Status != "" && p.Status != f.Status,
			f.MinPrice != nil && p.Price.Amount < *f.MinPrice,
			f.MaxPrice != nil && p.Price.Amount > *f.MaxPrice:
			continue
		}
		matches = append(matches, cloneProperty(p))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	total := int64(len(matches))
	start := f.Offset()
	if start > len(matches) {
		start = len(matches)
	}
	end := start + f.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func (r *memoryProperties) Update(_ context.Context, p *domainProperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.ID]; !ok {
		return domainProperty.ErrPropertyNotFound
	}
	r.items[p.ID] = cloneProperty(p)
	return nil
}

func (r *memoryProperties) Delete(_ context.Context, id uuid.UUID) (*domainProperty.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domainProperty.ErrPropertyNotFound
	}
	delete(r.items, id)
	return p, nil
}

func (r *memoryProperties) SetDiscount(_ context.Context, id uuid.UUID, discounted *float64, updatedBy uuid.UUID) (*domainProperty.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domainProperty.ErrPropertyNotFound
	}
	p.Price.Discounted = discounted
	p.UpdatedBy = updatedBy
	return cloneProperty(p), nil
}

type memoryInquiries struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domainProperty.Inquiry
}

func newMemoryInquiries() *memoryInquiries {
	return &memoryInquiries{items: make(map[uuid.UUID]*domainProperty.Inquiry)}
}

func (r *memoryInquiries) Create(_ context.Context, i *domainProperty.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *i
	r.items[i.ID] = &c
	return nil
}

func (r *memoryInquiries) GetByID(_ context.Context, id uuid.UUID) (*domainProperty.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.items[id]
	if !ok {
		return nil, domainProperty.ErrInquiryNotFound
	}
	c := *i
	return &c, nil
}

func (r *memoryInquiries) List(_ context.Context, f domainProperty.InquiryFilter) ([]*domainProperty.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domainProperty.Inquiry
	for _, i := range r.items {
		if f.PropertyID != nil && i.PropertyID != *f.PropertyID {
			continue
		}
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		c := *i
		out = append(out, &c)
	}
	return out, nil
}

func (r *memoryInquiries) UpdateStatus(_ context.Context, id uuid.UUID, status domainProperty.InquiryStatus) (*domainProperty.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.items[id]
	if !ok {
		return nil, domainProperty.ErrInquiryNotFound
	}
	i.Status = status
	c := *i
	return &c, nil
}

func (r *memoryInquiries) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domainProperty.ErrInquiryNotFound
	}
	delete(r.items, id)
	return nil
}

type memoryImages struct {
	mu      sync.Mutex
	files   map[string][]byte
	failing bool
}

func newMemoryImages() *memoryImages {
	return &memoryImages{files: make(map[string][]byte)}
}

func (s *memoryImages) Save(_ context.Context, data []byte, _, extension string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return "", errors.New("disk full")
	}
	name := uuid.NewString() + extension
	s.files[name] = append([]byte(nil), data...)
	return name, nil
}

func (s *memoryImages) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.files[name]
	if !ok {
		return nil, "", appErrors.ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "image/png", nil
}

func (s *memoryImages) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

func (s *memoryImages) has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[name]
	return ok
}

func (s *memoryImages) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
