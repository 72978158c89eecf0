package models

import "time"

// PropertyDocument is the stored shape of a listing.
type PropertyDocument struct {
	ID               string           `bson:"_id"`
	Code             string           `bson:"code,omitempty"`
	Title            string           `bson:"title"`
	PropertyType     string           `bson:"propertyType"`
	ListingType      string           `bson:"listingType"`
	Location         LocationDocument `bson:"location"`
	Price            PriceDocument    `bson:"price"`
	Area             AreaDocument     `bson:"area"`
	Details          DetailsDocument  `bson:"details"`
	Description      string           `bson:"description,omitempty"`
	Amenities        []string         `bson:"amenities"`
	Images           []string         `bson:"images"`
	Status           string           `bson:"status"`
	Contact          ContactDocument  `bson:"contact"`
	IsPremiumListing bool             `bson:"isPremiumListing"`
	ExpiryDate       *time.Time       `bson:"expiryDate,omitempty"`
	DiscountedPrice  *float64         `bson:"discountedPrice,omitempty"`
	IsDiscounted     bool             `bson:"isDiscounted"`
	CreatedBy        string           `bson:"createdBy"`
	UpdatedBy        string           `bson:"updatedBy"`
	CreatedAt        time.Time        `bson:"createdAt"`
	UpdatedAt        time.Time        `bson:"updatedAt"`
}

type LocationDocument struct {
	Address  string `bson:"address"`
	Locality string `bson:"locality"`
	City     string `bson:"city"`
	PinCode  string `bson:"pinCode,omitempty"`
}

type PriceDocument struct {
	Amount          float64 `bson:"amount"`
	SecurityDeposit float64 `bson:"securityDeposit,omitempty"`
	IsNegotiable    bool    `bson:"isNegotiable"`
}

type AreaDocument struct {
	TotalArea         float64 `bson:"totalArea"`
	UnitOfMeasurement string  `bson:"unitOfMeasurement"`
}

type DetailsDocument struct {
	Bedrooms         int    `bson:"bedrooms"`
	Bathrooms        int    `bson:"bathrooms"`
	Balconies        int    `bson:"balconies"`
	TotalFloors      int    `bson:"totalFloors"`
	FloorNumber      int    `bson:"floorNumber"`
	AgeOfProperty    int    `bson:"ageOfProperty"`
	FurnishingStatus string `bson:"furnishingStatus,omitempty"`
}

type ContactDocument struct {
	Name     string `bson:"name"`
	Email    string `bson:"email"`
	Phone    string `bson:"phone"`
	UserType string `bson:"userType"`
}

// InquiryDocument is the stored shape of a property form.
type InquiryDocument struct {
	ID          string    `bson:"_id"`
	PropertyID  string    `bson:"propertyId"`
	Name        string    `bson:"name"`
	Email       string    `bson:"email"`
	PhoneNumber string    `bson:"phoneNumber"`
	Message     string    `bson:"message,omitempty"`
	Status      string    `bson:"status"`
	UserID      string    `bson:"userId,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}
