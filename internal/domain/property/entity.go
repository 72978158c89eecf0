package property

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeResidential Type = "residential"
	TypeCommercial  Type = "commercial"
	TypePG          Type = "pg"
)

type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

type Status string

const (
	StatusAvailable     Status = "available"
	StatusUnderContract Status = "underContract"
	StatusSold          Status = "sold"
	StatusRented        Status = "rented"
)

// Property is a listing published by an administrator.
type Property struct {
	ID          uuid.UUID
	Code        string
	Title       string
	Type        Type
	Listing     ListingType
	Location    Location
	Price       Price
	Area        Area
	Details     Details
	Description string
	Amenities   []string
	Images      []string
	Status      Status
	Contact     Contact
	IsPremium   bool
	ExpiresAt   *time.Time
	CreatedBy   uuid.UUID
	UpdatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Location struct {
	Address  string
	Locality string
	City     string
	PinCode  string
}

// Price holds the asking amount. Discounted is nil unless a discount is set.
type Price struct {
	Amount          float64
	SecurityDeposit float64
	Negotiable      bool
	Discounted      *float64
}

func (p Price) IsDiscounted() bool {
	return p.Discounted != nil
}

type Area struct {
	Total float64
	Unit  string
}

type Details struct {
	Bedrooms    int
	Bathrooms   int
	Balconies   int
	TotalFloors int
	FloorNumber int
	AgeYears    int
	Furnishing  string
}

type Contact struct {
	Name     string
	Email    string
	Phone    string
	UserType string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter narrows a listing query. Zero fields do not filter.
type Filter struct {
	Type     Type
	Listing  ListingType
	City     string
	Status   Status
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// Normalize clamps paging to sane bounds.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
