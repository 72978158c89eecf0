package mongodb

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/property"
	"estate-brokerage/internal/infrastructure/database/mongodb/models"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PropertyRepository implements property.Repository on a MongoDB collection
type PropertyRepository struct {
	db *DB
}

func NewPropertyRepository(db *DB) property.Repository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) properties() *mongo.Collection {
	return r.db.collection(propertiesCollection)
}

func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	if _, err := r.properties().InsertOne(ctx, toPropertyDocument(p)); err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var doc models.PropertyDocument
	err := r.properties().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, property.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return toPropertyEntity(&doc), nil
}

// propertyFilter matches city case-insensitively and price on the asking amount.
func propertyFilter(f property.Filter) bson.M {
	filter := bson.M{}
	if f.Type != "" {
		filter["propertyType"] = string(f.Type)
	}
	if f.Listing != "" {
		filter["listingType"] = string(f.Listing)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.City != "" {
		filter["location.city"] = bson.M{
			"$regex":   "^" + regexp.QuoteMeta(f.City) + "$",
			"$options": "i",
		}
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price.amount"] = price
	}
	return filter
}

func (r *PropertyRepository) List(ctx context.Context, f property.Filter) ([]*property.Property, int64, error) {
	filter := propertyFilter(f)

	total, err := r.properties().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.Limit))
	cursor, err := r.properties().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}

	var docs []models.PropertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode properties: %w", err)
	}

	properties := make([]*property.Property, len(docs))
	for i := range docs {
		properties[i] = toPropertyEntity(&docs[i])
	}
	return properties, total, nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *property.Property) error {
	result, err := r.properties().ReplaceOne(ctx, bson.M{"_id": p.ID.String()}, toPropertyDocument(p))
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if result.MatchedCount == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var doc models.PropertyDocument
	err := r.properties().FindOneAndDelete(ctx, bson.M{"_id": id.String()}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, property.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete property: %w", err)
	}
	return toPropertyEntity(&doc), nil
}

// discountUpdate sets the discounted price or, for nil, removes it.
func discountUpdate(discounted *float64, updatedBy uuid.UUID, now time.Time) bson.M {
	set := bson.M{
		"isDiscounted": discounted != nil,
		"updatedBy":    updatedBy.String(),
		"updatedAt":    now,
	}
	if discounted == nil {
		return bson.M{"$set": set, "$unset": bson.M{"discountedPrice": ""}}
	}
	set["discountedPrice"] = *discounted
	return bson.M{"$set": set}
}

func (r *PropertyRepository) SetDiscount(ctx context.Context, id uuid.UUID, discounted *float64, updatedBy uuid.UUID) (*property.Property, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.PropertyDocument
	err := r.properties().FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		discountUpdate(discounted, updatedBy, time.Now()),
		opts,
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, property.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set discount: %w", err)
	}
	return toPropertyEntity(&doc), nil
}

func toPropertyDocument(p *property.Property) *models.PropertyDocument {
	return &models.PropertyDocument{
		ID:           p.ID.String(),
		Code:         p.Code,
		Title:        p.Title,
		PropertyType: string(p.Type),
		ListingType:  string(p.Listing),
		Location: models.LocationDocument{
			Address:  p.Location.Address,
			Locality: p.Location.Locality,
			City:     p.Location.City,
			PinCode:  p.Location.PinCode,
		},
		Price: models.PriceDocument{
			Amount:          p.Price.Amount,
			SecurityDeposit: p.Price.SecurityDeposit,
			IsNegotiable:    p.Price.Negotiable,
		},
		Area: models.AreaDocument{TotalArea: p.Area.Total, UnitOfMeasurement: p.Area.Unit},
		Details: models.DetailsDocument{
			Bedrooms:         p.Details.Bedrooms,
			Bathrooms:        p.Details.Bathrooms,
			Balconies:        p.Details.Balconies,
			TotalFloors:      p.Details.TotalFloors,
			FloorNumber:      p.Details.FloorNumber,
			AgeOfProperty:    p.Details.AgeYears,
			FurnishingStatus: p.Details.Furnishing,
		},
		Description: p.Description,
		Amenities:   p.Amenities,
		Images:      p.Images,
		Status:      string(p.Status),
		Contact: models.ContactDocument{
			Name:     p.Contact.Name,
			Email:    p.Contact.Email,
			Phone:    p.Contact.Phone,
			UserType: p.Contact.UserType,
		},
		IsPremiumListing: p.IsPremium,
		ExpiryDate:       p.ExpiresAt,
		DiscountedPrice:  p.Price.Discounted,
		IsDiscounted:     p.Price.IsDiscounted(),
		CreatedBy:        p.CreatedBy.String(),
		UpdatedBy:        p.UpdatedBy.String(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toPropertyEntity(doc *models.PropertyDocument) *property.Property {
	id, _ := uuid.Parse(doc.ID)
	createdBy, _ := uuid.Parse(doc.CreatedBy)
	updatedBy, _ := uuid.Parse(doc.UpdatedBy)

	return &property.Property{
		ID:      id,
		Code:    doc.Code,
		Title:   doc.Title,
		Type:    property.Type(doc.PropertyType),
		Listing: property.ListingType(doc.ListingType),
		Location: property.Location{
			Address:  doc.Location.Address,
			Locality: doc.Location.Locality,
			City:     doc.Location.City,
			PinCode:  doc.Location.PinCode,
		},
		Price: property.Price{
			Amount:          doc.Price.Amount,
			SecurityDeposit: doc.Price.SecurityDeposit,
			Negotiable:      doc.Price.IsNegotiable,
			Discounted:      doc.DiscountedPrice,
		},
		Area: property.Area{Total: doc.Area.TotalArea, Unit: doc.Area.UnitOfMeasurement},
		Details: property.Details{
			Bedrooms:    doc.Details.Bedrooms,
			Bathrooms:   doc.Details.Bathrooms,
			Balconies:   doc.Details.Balconies,
			TotalFloors: doc.Details.TotalFloors,
			FloorNumber: doc.Details.FloorNumber,
			AgeYears:    doc.Details.AgeOfProperty,
			Furnishing:  doc.Details.FurnishingStatus,
		},
		Description: doc.Description,
		Amenities:   doc.Amenities,
		Images:      doc.Images,
		Status:      property.Status(doc.Status),
		Contact: property.Contact{
			Name:     doc.Contact.Name,
			Email:    doc.Contact.Email,
			Phone:    doc.Contact.Phone,
			UserType: doc.Contact.UserType,
		},
		IsPremium: doc.IsPremiumListing,
		ExpiresAt: doc.ExpiryDate,
		CreatedBy: createdBy,
		UpdatedBy: updatedBy,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// InquiryRepository implements property.InquiryRepository on a MongoDB collection
type InquiryRepository struct {
	db *DB
}

func NewInquiryRepository(db *DB) property.InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) inquiries() *mongo.Collection {
	return r.db.collection(inquiriesCollection)
}

func (r *InquiryRepository) Create(ctx context.Context, i *property.Inquiry) error {
	if _, err := r.inquiries().InsertOne(ctx, toInquiryDocument(i)); err != nil {
		return fmt.Errorf("failed to create property form: %w", err)
	}
	return nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*property.Inquiry, error) {
	var doc models.InquiryDocument
	err := r.inquiries().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, property.ErrInquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property form: %w", err)
	}
	return toInquiryEntity(&doc), nil
}

func inquiryFilter(f property.InquiryFilter) bson.M {
	filter := bson.M{}
	if f.PropertyID != nil {
		filter["propertyId"] = f.PropertyID.String()
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	return filter
}

func (r *InquiryRepository) List(ctx context.Context, f property.InquiryFilter) ([]*property.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.inquiries().Find(ctx, inquiryFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list property forms: %w", err)
	}

	var docs []models.InquiryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode property forms: %w", err)
	}

	inquiries := make([]*property.Inquiry, len(docs))
	for i := range docs {
		inquiries[i] = toInquiryEntity(&docs[i])
	}
	return inquiries, nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status property.InquiryStatus) (*property.Inquiry, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.InquiryDocument
	err := r.inquiries().FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		withUpdatedAt(bson.M{"$set": bson.M{"status": string(status)}}),
		opts,
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, property.ErrInquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update property form: %w", err)
	}
	return toInquiryEntity(&doc), nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.inquiries().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete property form: %w", err)
	}
	if result.DeletedCount == 0 {
		return property.ErrInquiryNotFound
	}
	return nil
}

func toInquiryDocument(i *property.Inquiry) *models.InquiryDocument {
	doc := &models.InquiryDocument{
		ID:          i.ID.String(),
		PropertyID:  i.PropertyID.String(),
		Name:        i.Name,
		Email:       i.Email,
		PhoneNumber: i.PhoneNumber,
		Message:     i.Message,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
	if i.UserID != nil {
		doc.UserID = i.UserID.String()
	}
	return doc
}

func toInquiryEntity(doc *models.InquiryDocument) *property.Inquiry {
	id, _ := uuid.Parse(doc.ID)
	propertyID, _ := uuid.Parse(doc.PropertyID)

	i := &property.Inquiry{
		ID:          id,
		PropertyID:  propertyID,
		Name:        doc.Name,
		Email:       doc.Email,
		PhoneNumber: doc.PhoneNumber,
		Message:     doc.Message,
		Status:      property.InquiryStatus(doc.Status),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if userID, err := uuid.Parse(doc.UserID); err == nil {
		i.UserID = &userID
	}
	return i
}
