package mongodb

import (
	"estate-brokerage/internal/domain/catalog"
	"estate-brokerage/internal/domain/contact"
	"estate-brokerage/internal/domain/property"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPropertyFilter(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.Empty(t, propertyFilter(property.Filter{}))
	})

	t.Run("city is anchored and case insensitive", func(t *testing.T) {
		filter := propertyFilter(property.Filter{City: "New (Delhi)"})
		assert.Equal(t, bson.M{"$regex": `^New \(Delhi\)$`, "$options": "i"}, filter["location.city"])
	})

	t.Run("price bounds apply to the asking amount", func(t *testing.T) {
		minPrice, maxPrice := 100.0, 500.0
		filter := propertyFilter(property.Filter{
			Type:     property.TypeResidential,
			Listing:  property.ListingRent,
			MinPrice: &minPrice,
			MaxPrice: &maxPrice,
		})

		assert.Equal(t, "residential", filter["propertyType"])
		assert.Equal(t, "rent", filter["listingType"])
		assert.Equal(t, bson.M{"$gte": 100.0, "$lte": 500.0}, filter["price.amount"])
	})
}

func TestDiscountUpdate(t *testing.T) {
	admin := uuid.New()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("sets the discounted price", func(t *testing.T) {
		price := 90.0
		update := discountUpdate(&price, admin, now)

		set := update["$set"].(bson.M)
		assert.Equal(t, 90.0, set["discountedPrice"])
		assert.Equal(t, true, set["isDiscounted"])
		assert.Equal(t, admin.String(), set["updatedBy"])
		assert.NotContains(t, update, "$unset")
	})

	t.Run("nil removes the discount", func(t *testing.T) {
		update := discountUpdate(nil, admin, now)

		set := update["$set"].(bson.M)
		assert.Equal(t, false, set["isDiscounted"])
		assert.NotContains(t, set, "discountedPrice")
		assert.Equal(t, bson.M{"discountedPrice": ""}, update["$unset"])
	})
}

func TestPropertyDocumentMapping(t *testing.T) {
	discounted := 80.0
	expires := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	p := &property.Property{
		ID:        uuid.New(),
		Title:     "Two bedroom flat",
		Type:      property.TypeResidential,
		Listing:   property.ListingSale,
		Location:  property.Location{Address: "1 Main St", Locality: "Centre", City: "Pune"},
		Price:     property.Price{Amount: 100, Negotiable: true, Discounted: &discounted},
		Area:      property.Area{Total: 900, Unit: "sqft"},
		Details:   property.Details{Bedrooms: 2, Bathrooms: 1},
		Images:    []string{"a.png"},
		Status:    property.StatusAvailable,
		ExpiresAt: &expires,
		CreatedBy: uuid.New(),
		UpdatedBy: uuid.New(),
	}

	doc := toPropertyDocument(p)
	assert.True(t, doc.IsDiscounted)
	require.NotNil(t, doc.DiscountedPrice)

	assert.Equal(t, p, toPropertyEntity(doc))
}

func TestInquiryDocumentMapping(t *testing.T) {
	t.Run("anonymous inquiry has no user", func(t *testing.T) {
		i := &property.Inquiry{ID: uuid.New(), PropertyID: uuid.New(), Status: property.InquiryRequested}
		doc := toInquiryDocument(i)

		assert.Empty(t, doc.UserID)
		assert.Nil(t, toInquiryEntity(doc).UserID)
	})

	t.Run("signed in inquiry keeps the user", func(t *testing.T) {
		userID := uuid.New()
		i := &property.Inquiry{ID: uuid.New(), PropertyID: uuid.New(), UserID: &userID}

		got := toInquiryEntity(toInquiryDocument(i))
		require.NotNil(t, got.UserID)
		assert.Equal(t, userID, *got.UserID)
	})

	t.Run("filter by property and status", func(t *testing.T) {
		propertyID := uuid.New()
		filter := inquiryFilter(property.InquiryFilter{PropertyID: &propertyID, Status: property.InquiryAccepted})

		assert.Equal(t, bson.M{"propertyId": propertyID.String(), "status": "Accepted"}, filter)
	})
}

func TestOfferingQueries(t *testing.T) {
	available := false
	filter := offeringFilter(catalog.OfferingFilter{
		Category:    catalog.CategoryCleaning,
		PricingType: catalog.PricingRange,
		IsAvailable: &available,
	})
	assert.Equal(t, bson.M{
		"category":     "cleaning",
		"pricing.type": "range",
		"isAvailable":  false,
	}, filter)

	now := time.Now()
	update := toggleAvailabilityUpdate(now)
	require.Len(t, update, 1)
	set := update[0].(bson.M)["$set"].(bson.M)
	assert.Equal(t, bson.M{"$not": bson.A{"$isAvailable"}}, set["isAvailable"])
	assert.Equal(t, now, set["updatedAt"])
}

func TestBookingQueries(t *testing.T) {
	t.Run("date filter spans the UTC day", func(t *testing.T) {
		day := time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)
		filter := bookingFilter(catalog.BookingFilter{Date: &day, Status: catalog.BookingPending})

		assert.Equal(t, "pending", filter["status"])
		assert.Equal(t, bson.M{
			"$gte": time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			"$lt":  time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
		}, filter["preferred_date"])
	})

	t.Run("cancel is guarded on open bookings", func(t *testing.T) {
		now := time.Now()
		filter, update := cancelQuery("SB000000000001", now)

		assert.Equal(t, "SB000000000001", filter["service_booking_id"])
		assert.Equal(t, bson.M{"$nin": bson.A{"completed", "cancelled"}}, filter["status"])
		assert.Equal(t, bson.M{"$set": bson.M{"status": "cancelled", "updated_at": now}}, update)
	})
}

func TestContactQueries(t *testing.T) {
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	filter := contactFilter(contact.Filter{Status: contact.StatusRead, Email: "a@x.com", Date: &day})

	assert.Equal(t, "read", filter["status"])
	assert.Equal(t, "a@x.com", filter["email"])
	assert.Contains(t, filter, "created_at")

	m := &contact.Message{ID: uuid.New(), Reference: "CNT000000000001", Body: "hello", Status: contact.StatusNew}
	assert.Equal(t, m, toContactEntity(toContactDocument(m)))
}
