package models

import "time"

// OfferingDocument is the stored shape of a catalog service.
type OfferingDocument struct {
	ID               string          `bson:"_id"`
	Name             string          `bson:"name"`
	Category         string          `bson:"category"`
	Description      string          `bson:"description,omitempty"`
	Pricing          PricingDocument `bson:"pricing"`
	Features         []string        `bson:"features"`
	Images           []string        `bson:"images"`
	IsAvailable      bool            `bson:"isAvailable"`
	EstimateRequired bool            `bson:"estimateRequired"`
	CreatedAt        time.Time       `bson:"createdAt"`
	UpdatedAt        time.Time       `bson:"updatedAt"`
}

type PricingDocument struct {
	Type      string   `bson:"type"`
	Amount    *float64 `bson:"amount,omitempty"`
	MinAmount *float64 `bson:"minAmount,omitempty"`
	MaxAmount *float64 `bson:"maxAmount,omitempty"`
	Unit      string   `bson:"unit,omitempty"`
}

// BookingDocument is the stored shape of a service booking.
type BookingDocument struct {
	ID            string    `bson:"_id"`
	Reference     string    `bson:"service_booking_id"`
	ServiceType   string    `bson:"service_type"`
	Name          string    `bson:"name"`
	PhoneNumber   string    `bson:"phone_number"`
	PreferredDate time.Time `bson:"preferred_date"`
	PreferredTime string    `bson:"preferred_time"`
	Address       string    `bson:"service_address"`
	Notes         string    `bson:"additional_notes,omitempty"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// ContactMessageDocument is the stored shape of a contact form submission.
type ContactMessageDocument struct {
	ID          string    `bson:"_id"`
	Reference   string    `bson:"contact_id"`
	FullName    string    `bson:"fullname"`
	Email       string    `bson:"email"`
	PhoneNumber string    `bson:"phonenumber"`
	Subject     string    `bson:"subject"`
	Message     string    `bson:"message"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}
