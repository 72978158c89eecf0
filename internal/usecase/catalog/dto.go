package catalog

import (
	domainCatalog "estate-brokerage/internal/domain/catalog"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type OfferingRequest struct {
	Name             string   `json:"name" validate:"required,min=2,max=200"`
	Category         string   `json:"category" validate:"required,oneof=furniture interior painting cleaning plumbing electrical moving ac"`
	Description      string   `json:"description" validate:"max=5000"`
	PricingType      string   `json:"pricingType" validate:"required,oneof=fixed estimate range"`
	Amount           *float64 `json:"amount" validate:"omitempty,gte=0"`
	MinAmount        *float64 `json:"minAmount" validate:"omitempty,gte=0"`
	MaxAmount        *float64 `json:"maxAmount" validate:"omitempty,gte=0"`
	Unit             string   `json:"unit" validate:"max=50"`
	Features         []string `json:"features" validate:"max=50,dive,required,max=200"`
	Images           []string `json:"images" validate:"max=20,dive,url"`
	IsAvailable      *bool    `json:"isAvailable"`
	EstimateRequired bool     `json:"estimateRequired"`
}

type OfferingListQuery struct {
	Category         string `json:"category" form:"category" validate:"omitempty,oneof=furniture interior painting cleaning plumbing electrical moving ac"`
	PricingType      string `json:"pricingType" form:"pricingType" validate:"omitempty,oneof=fixed estimate range"`
	IsAvailable      *bool  `json:"isAvailable" form:"isAvailable"`
	EstimateRequired *bool  `json:"estimateRequired" form:"estimateRequired"`
}

type BookingRequest struct {
	ServiceType   string `json:"service_type" validate:"required,max=100"`
	Name          string `json:"name" validate:"required,min=2,max=255"`
	PhoneNumber   string `json:"phone_number" validate:"required,phone"`
	PreferredDate string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferred_time" validate:"required,clock"`
	Address       string `json:"service_address" validate:"required,max=500"`
	Notes         string `json:"additional_notes" validate:"max=2000"`
}

type BookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type BookingListQuery struct {
	ServiceType string `json:"service_type" form:"service_type" validate:"max=100"`
	Status      string `json:"status" form:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	Date        string `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"max=32"`
}

type PricingResponse struct {
	Type      string   `json:"type"`
	Amount    *float64 `json:"amount,omitempty"`
	MinAmount *float64 `json:"minAmount,omitempty"`
	MaxAmount *float64 `json:"maxAmount,omitempty"`
	Unit      string   `json:"unit,omitempty"`
}

type OfferingResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Description      string          `json:"description,omitempty"`
	Pricing          PricingResponse `json:"pricing"`
	Features         []string        `json:"features"`
	Images           []string        `json:"images"`
	IsAvailable      bool            `json:"isAvailable"`
	EstimateRequired bool            `json:"estimateRequired"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type BookingResponse struct {
	ServiceBookingID string    `json:"service_booking_id"`
	ServiceType      string    `json:"service_type"`
	Name             string    `json:"name"`
	PhoneNumber      string    `json:"phone_number"`
	PreferredDate    string    `json:"preferred_date"`
	PreferredTime    string    `json:"preferred_time"`
	Address          string    `json:"service_address"`
	Notes            string    `json:"additional_notes,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ToOfferingResponse(o *domainCatalog.Offering) *OfferingResponse {
	features := o.Features
	if features == nil {
		features = []string{}
	}
	images := o.Images
	if images == nil {
		images = []string{}
	}

	return &OfferingResponse{
		ID:          o.ID,
		Name:        o.Name,
		Category:    string(o.Category),
		Description: o.Description,
		Pricing: PricingResponse{
			Type:      string(o.Pricing.Type),
			Amount:    o.Pricing.Amount,
			MinAmount: o.Pricing.MinAmount,
			MaxAmount: o.Pricing.MaxAmount,
			Unit:      o.Pricing.Unit,
		},
		Features:         features,
		Images:           images,
		IsAvailable:      o.IsAvailable,
		EstimateRequired: o.EstimateRequired,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func ToBookingResponse(b *domainCatalog.Booking) *BookingResponse {
	return &BookingResponse{
		ServiceBookingID: b.Reference,
		ServiceType:      b.ServiceType,
		Name:             b.Name,
		PhoneNumber:      b.PhoneNumber,
		PreferredDate:    b.PreferredDate.Format(dateLayout),
		PreferredTime:    b.PreferredTime,
		Address:          b.Address,
		Notes:            b.Notes,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
