package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyModel flattens a listing into one row. Lists are stored as JSON.
type PropertyModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	Code             string    `gorm:"type:varchar(64)"`
	Title            string    `gorm:"type:varchar(255);not null"`
	PropertyType     string    `gorm:"type:varchar(20);not null;index"`
	ListingType      string    `gorm:"type:varchar(10);not null;index"`
	Address          string    `gorm:"type:varchar(255);not null"`
	Locality         string    `gorm:"type:varchar(120)"`
	City             string    `gorm:"type:varchar(120);not null;index"`
	PinCode          string    `gorm:"type:varchar(12)"`
	Price            float64   `gorm:"not null;index"`
	SecurityDeposit  float64
	IsNegotiable     bool
	DiscountedPrice  *float64
	TotalArea        float64
	AreaUnit         string `gorm:"type:varchar(20)"`
	Bedrooms         int
	Bathrooms        int
	Balconies        int
	TotalFloors      int
	FloorNumber      int
	AgeOfProperty    int
	FurnishingStatus string   `gorm:"type:varchar(40)"`
	Description      string   `gorm:"type:text"`
	Amenities        []string `gorm:"serializer:json"`
	Images           []string `gorm:"serializer:json"`
	Status           string   `gorm:"type:varchar(20);not null;index"`
	ContactName      string   `gorm:"type:varchar(255)"`
	ContactEmail     string   `gorm:"type:varchar(255)"`
	ContactPhone     string   `gorm:"type:varchar(32)"`
	ContactUserType  string   `gorm:"type:varchar(20)"`
	IsPremiumListing bool
	ExpiryDate       *time.Time
	CreatedBy        uuid.UUID `gorm:"type:uuid"`
	UpdatedBy        uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time `gorm:"not null;index"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (PropertyModel) TableName() string {
	return "properties"
}

type InquiryModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	PropertyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Email       string     `gorm:"type:varchar(255);not null"`
	PhoneNumber string     `gorm:"type:varchar(32);not null"`
	Message     string     `gorm:"type:text"`
	Status      string     `gorm:"type:varchar(20);not null"`
	UserID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (InquiryModel) TableName() string {
	return "property_forms"
}

type OfferingModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Category         string    `gorm:"type:varchar(20);not null;index"`
	Description      string    `gorm:"type:text"`
	PricingType      string    `gorm:"type:varchar(20);not null"`
	Amount           *float64
	MinAmount        *float64
	MaxAmount        *float64
	Unit             string    `gorm:"type:varchar(40)"`
	Features         []string  `gorm:"serializer:json"`
	Images           []string  `gorm:"serializer:json"`
	IsAvailable      bool      `gorm:"not null"`
	EstimateRequired bool      `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (OfferingModel) TableName() string {
	return "services"
}

type BookingModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Reference     string    `gorm:"type:varchar(20);not null;uniqueIndex:uniq_service_booking_id"`
	ServiceType   string    `gorm:"type:varchar(60);not null"`
	Name          string    `gorm:"type:varchar(255);not null"`
	PhoneNumber   string    `gorm:"type:varchar(32);not null"`
	PreferredDate time.Time `gorm:"not null;index"`
	PreferredTime string    `gorm:"type:varchar(5);not null"`
	Address       string    `gorm:"type:varchar(500);not null"`
	Notes         string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (BookingModel) TableName() string {
	return "service_bookings"
}

type ContactModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Reference   string    `gorm:"type:varchar(20);not null;uniqueIndex:uniq_contact_id"`
	FullName    string    `gorm:"type:varchar(255);not null"`
	Email       string    `gorm:"type:varchar(255);not null;index"`
	PhoneNumber string    `gorm:"type:varchar(32)"`
	Subject     string    `gorm:"type:varchar(255);not null"`
	Message     string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ContactModel) TableName() string {
	return "contacts"
}
