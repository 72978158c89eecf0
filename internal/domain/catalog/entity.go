package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFurniture  Category = "furniture"
	CategoryInterior   Category = "interior"
	CategoryPainting   Category = "painting"
	CategoryCleaning   Category = "cleaning"
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryMoving     Category = "moving"
	CategoryAC         Category = "ac"
)

type PricingType string

const (
	PricingFixed    PricingType = "fixed"
	PricingEstimate PricingType = "estimate"
	PricingRange    PricingType = "range"
)

// Offering is a home service the brokerage sells alongside its listings.
type Offering struct {
	ID               uuid.UUID
	Name             string
	Category         Category
	Description      string
	Pricing          Pricing
	Features         []string
	Images           []string
	IsAvailable      bool
	EstimateRequired bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Pricing struct {
	Type      PricingType
	Amount    *float64
	MinAmount *float64
	MaxAmount *float64
	Unit      string
}

// OfferingFilter narrows the catalog. Nil and empty fields do not filter.
type OfferingFilter struct {
	Category         Category
	PricingType      PricingType
	IsAvailable      *bool
	EstimateRequired *bool
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Final reports whether the booking can no longer be cancelled.
func (s BookingStatus) Final() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Booking is a visitor's appointment for a service. Reference is the
// public identifier quoted back to the visitor.
type Booking struct {
	ID            uuid.UUID
	Reference     string
	ServiceType   string
	Name          string
	PhoneNumber   string
	PreferredDate time.Time
	PreferredTime string
	Address       string
	Notes         string
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookingFilter narrows the booking list. Date matches the whole UTC day.
type BookingFilter struct {
	ServiceType string
	Status      BookingStatus
	PhoneNumber string
	Date        *time.Time
}
