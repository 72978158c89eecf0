package property

import (
	domainProperty "estate-brokerage/internal/domain/property"
	"time"

	"github.com/google/uuid"
)

// PropertyRequest binds both JSON and multipart listing bodies. Nested
// sections are flattened so multipart forms can carry them.
type PropertyRequest struct {
	Code            string     `json:"code" form:"code" validate:"max=50"`
	Title           string     `json:"title" form:"title" validate:"required,min=3,max=200"`
	PropertyType    string     `json:"propertyType" form:"propertyType" validate:"required,oneof=residential commercial pg"`
	ListingType     string     `json:"listingType" form:"listingType" validate:"required,oneof=sale rent"`
	Address         string     `json:"address" form:"address" validate:"required,max=500"`
	Locality        string     `json:"locality" form:"locality" validate:"required,max=200"`
	City            string     `json:"city" form:"city" validate:"required,max=100"`
	PinCode         string     `json:"pinCode" form:"pinCode" validate:"omitempty,numeric,max=10"`
	Price           float64    `json:"price" form:"price" validate:"required,gt=0"`
	SecurityDeposit float64    `json:"securityDeposit" form:"securityDeposit" validate:"gte=0"`
	IsNegotiable    bool       `json:"isNegotiable" form:"isNegotiable"`
	TotalArea       float64    `json:"totalArea" form:"totalArea" validate:"required,gt=0"`
	AreaUnit        string     `json:"areaUnit" form:"areaUnit" validate:"required,oneof=sqft sqm"`
	Bedrooms        int        `json:"bedrooms" form:"bedrooms" validate:"gte=0,lte=100"`
	Bathrooms       int        `json:"bathrooms" form:"bathrooms" validate:"gte=0,lte=100"`
	Balconies       int        `json:"balconies" form:"balconies" validate:"gte=0,lte=100"`
	TotalFloors     int        `json:"totalFloors" form:"totalFloors" validate:"gte=0,lte=300"`
	FloorNumber     int        `json:"floorNumber" form:"floorNumber" validate:"gte=-5,lte=300"`
	AgeOfProperty   int        `json:"ageOfProperty" form:"ageOfProperty" validate:"gte=0,lte=500"`
	Furnishing      string     `json:"furnishingStatus" form:"furnishingStatus" validate:"omitempty,oneof=unfurnished semifurnished furnished"`
	Description     string     `json:"description" form:"description" validate:"max=5000"`
	Amenities       []string   `json:"amenities" form:"amenities" validate:"max=50,dive,required,max=100"`
	Status          string     `json:"status" form:"status" validate:"omitempty,oneof=available underContract sold rented"`
	ContactName     string     `json:"contactName" form:"contactName" validate:"required,min=2,max=255"`
	ContactEmail    string     `json:"contactEmail" form:"contactEmail" validate:"required,email,max=255"`
	ContactPhone    string     `json:"contactPhone" form:"contactPhone" validate:"required,phone"`
	ContactUserType string     `json:"contactUserType" form:"contactUserType" validate:"required,oneof=owner agent"`
	IsPremium       bool       `json:"isPremiumListing" form:"isPremiumListing"`
	ExpiryDate      *time.Time `json:"expiryDate" form:"expiryDate" time_format:"2006-01-02"`
}

// ListQuery binds the public listing filters from the query string.
type ListQuery struct {
	PropertyType string   `json:"propertyType" form:"propertyType" validate:"omitempty,oneof=residential commercial pg"`
	ListingType  string   `json:"listingType" form:"listingType" validate:"omitempty,oneof=sale rent"`
	City         string   `json:"city" form:"city" validate:"max=100"`
	Status       string   `json:"status" form:"status" validate:"omitempty,oneof=available underContract sold rented"`
	MinPrice     *float64 `json:"minPrice" form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice     *float64 `json:"maxPrice" form:"maxPrice" validate:"omitempty,gte=0"`
	Page         int      `json:"page" form:"page" validate:"gte=0"`
	Limit        int      `json:"limit" form:"limit" validate:"gte=0,lte=100"`
}

// DiscountRequest sets a discounted price. Null or zero clears the discount.
type DiscountRequest struct {
	DiscountedPrice *float64 `json:"discountedPrice" validate:"omitempty,gt=0"`
}

type InquiryRequest struct {
	PropertyID  string `json:"property_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Message     string `json:"message" validate:"max=2000"`
}

type InquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Requested Accepted Ongoing Completed Cancelled"`
}

type InquiryListQuery struct {
	PropertyID string `json:"property_id" form:"property_id" validate:"omitempty,uuid"`
	Status     string `json:"status" form:"status" validate:"omitempty,oneof=Requested Accepted Ongoing Completed Cancelled"`
}

type LocationResponse struct {
	Address  string `json:"address"`
	Locality string `json:"locality"`
	City     string `json:"city"`
	PinCode  string `json:"pinCode,omitempty"`
}

type PriceResponse struct {
	Amount          float64  `json:"amount"`
	SecurityDeposit float64  `json:"securityDeposit,omitempty"`
	IsNegotiable    bool     `json:"isNegotiable"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	IsDiscounted    bool     `json:"isDiscounted"`
}

type AreaResponse struct {
	TotalArea         float64 `json:"totalArea"`
	UnitOfMeasurement string  `json:"unitOfMeasurement"`
}

type DetailsResponse struct {
	Bedrooms         int    `json:"bedrooms"`
	Bathrooms        int    `json:"bathrooms"`
	Balconies        int    `json:"balconies"`
	TotalFloors      int    `json:"totalFloors"`
	FloorNumber      int    `json:"floorNumber"`
	AgeOfProperty    int    `json:"ageOfProperty"`
	FurnishingStatus string `json:"furnishingStatus,omitempty"`
}

type ContactResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	UserType string `json:"userType"`
}

type PropertyResponse struct {
	ID               uuid.UUID        `json:"id"`
	Code             string           `json:"code,omitempty"`
	Title            string           `json:"title"`
	PropertyType     string           `json:"propertyType"`
	ListingType      string           `json:"listingType"`
	Location         LocationResponse `json:"location"`
	Price            PriceResponse    `json:"price"`
	Area             AreaResponse     `json:"area"`
	Details          DetailsResponse  `json:"details"`
	Description      string           `json:"description,omitempty"`
	Amenities        []string         `json:"amenities"`
	Images           []string         `json:"images"`
	Status           string           `json:"status"`
	Contact          ContactResponse  `json:"contact"`
	IsPremiumListing bool             `json:"isPremiumListing"`
	ExpiryDate       *time.Time       `json:"expiryDate,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type PropertyPage struct {
	Properties []*PropertyResponse `json:"properties"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

type InquiryResponse struct {
	ID          uuid.UUID  `json:"id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	Message     string     `json:"message,omitempty"`
	Status      string     `json:"status"`
	UserID      *uuid.UUID `json:"userId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type InquiryCreatedResponse struct {
	Message         string           `json:"message"`
	PropertyDetails *InquiryResponse `json:"property_details"`
}

func ToPropertyResponse(p *domainProperty.Property) *PropertyResponse {
	amenities := p.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return &PropertyResponse{
		ID:           p.ID,
		Code:         p.Code,
		Title:        p.Title,
		PropertyType: string(p.Type),
		ListingType:  string(p.Listing),
		Location: LocationResponse{
			Address:  p.Location.Address,
			Locality: p.Location.Locality,
			City:     p.Location.City,
			PinCode:  p.Location.PinCode,
		},
		Price: PriceResponse{
			Amount:          p.Price.Amount,
			SecurityDeposit: p.Price.SecurityDeposit,
			IsNegotiable:    p.Price.Negotiable,
			DiscountedPrice: p.Price.Discounted,
			IsDiscounted:    p.Price.IsDiscounted(),
		},
		Area: AreaResponse{TotalArea: p.Area.Total, UnitOfMeasurement: p.Area.Unit},
		Details: DetailsResponse{
			Bedrooms:         p.Details.Bedrooms,
			Bathrooms:        p.Details.Bathrooms,
			Balconies:        p.Details.Balconies,
			TotalFloors:      p.Details.TotalFloors,
			FloorNumber:      p.Details.FloorNumber,
			AgeOfProperty:    p.Details.AgeYears,
			FurnishingStatus: p.Details.Furnishing,
		},
		Description: p.Description,
		Amenities:   amenities,
		Images:      images,
		Status:      string(p.Status),
		Contact: ContactResponse{
			Name:     p.Contact.Name,
			Email:    p.Contact.Email,
			Phone:    p.Contact.Phone,
			UserType: p.Contact.UserType,
		},
		IsPremiumListing: p.IsPremium,
		ExpiryDate:       p.ExpiresAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToInquiryResponse(i *domainProperty.Inquiry) *InquiryResponse {
	return &InquiryResponse{
		ID:          i.ID,
		PropertyID:  i.PropertyID,
		Name:        i.Name,
		Email:       i.Email,
		PhoneNumber: i.PhoneNumber,
		Message:     i.Message,
		Status:      string(i.Status),
		UserID:      i.UserID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
