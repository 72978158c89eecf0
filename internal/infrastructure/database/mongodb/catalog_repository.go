package mongodb

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/catalog"
	"estate-brokerage/internal/infrastructure/database/mongodb/models"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// OfferingRepository implements catalog.OfferingRepository on a MongoDB collection
type OfferingRepository struct {
	db *DB
}

func NewOfferingRepository(db *DB) catalog.OfferingRepository {
	return &OfferingRepository{db: db}
}

func (r *OfferingRepository) offerings() *mongo.Collection {
	return r.db.collection(offeringsCollection)
}

func (r *OfferingRepository) Create(ctx context.Context, o *catalog.Offering) error {
	if _, err := r.offerings().InsertOne(ctx, toOfferingDocument(o)); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *OfferingRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Offering, error) {
	var doc models.OfferingDocument
	err := r.offerings().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, catalog.ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return toOfferingEntity(&doc), nil
}

func offeringFilter(f catalog.OfferingFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	if f.PricingType != "" {
		filter["pricing.type"] = string(f.PricingType)
	}
	if f.IsAvailable != nil {
		filter["isAvailable"] = *f.IsAvailable
	}
	if f.EstimateRequired != nil {
		filter["estimateRequired"] = *f.EstimateRequired
	}
	return filter
}

func (r *OfferingRepository) List(ctx context.Context, f catalog.OfferingFilter) ([]*catalog.Offering, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.offerings().Find(ctx, offeringFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	var docs []models.OfferingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	offerings := make([]*catalog.Offering, len(docs))
	for i := range docs {
		offerings[i] = toOfferingEntity(&docs[i])
	}
	return offerings, nil
}

func (r *OfferingRepository) Update(ctx context.Context, o *catalog.Offering) error {
	result, err := r.offerings().ReplaceOne(ctx, bson.M{"_id": o.ID.String()}, toOfferingDocument(o))
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalog.ErrOfferingNotFound
	}
	return nil
}

func (r *OfferingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.offerings().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if result.DeletedCount == 0 {
		return catalog.ErrOfferingNotFound
	}
	return nil
}

// toggleAvailabilityUpdate negates the stored flag server side so two
// concurrent toggles cannot both read the same value.
func toggleAvailabilityUpdate(now time.Time) bson.A {
	return bson.A{
		bson.M{"$set": bson.M{
			"isAvailable": bson.M{"$not": bson.A{"$isAvailable"}},
			"updatedAt":   now,
		}},
	}
}

func (r *OfferingRepository) ToggleAvailability(ctx context.Context, id uuid.UUID) (*catalog.Offering, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.OfferingDocument
	err := r.offerings().FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		toggleAvailabilityUpdate(time.Now()),
		opts,
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, catalog.ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle service availability: %w", err)
	}
	return toOfferingEntity(&doc), nil
}

func toOfferingDocument(o *catalog.Offering) *models.OfferingDocument {
	return &models.OfferingDocument{
		ID:          o.ID.String(),
		Name:        o.Name,
		Category:    string(o.Category),
		Description: o.Description,
		Pricing: models.PricingDocument{
			Type:      string(o.Pricing.Type),
			Amount:    o.Pricing.Amount,
			MinAmount: o.Pricing.MinAmount,
			MaxAmount: o.Pricing.MaxAmount,
			Unit:      o.Pricing.Unit,
		},
		Features:         o.Features,
		Images:           o.Images,
		IsAvailable:      o.IsAvailable,
		EstimateRequired: o.EstimateRequired,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func toOfferingEntity(doc *models.OfferingDocument) *catalog.Offering {
	id, _ := uuid.Parse(doc.ID)
	return &catalog.Offering{
		ID:          id,
		Name:        doc.Name,
		Category:    catalog.Category(doc.Category),
		Description: doc.Description,
		Pricing: catalog.Pricing{
			Type:      catalog.PricingType(doc.Pricing.Type),
			Amount:    doc.Pricing.Amount,
			MinAmount: doc.Pricing.MinAmount,
			MaxAmount: doc.Pricing.MaxAmount,
			Unit:      doc.Pricing.Unit,
		},
		Features:         doc.Features,
		Images:           doc.Images,
		IsAvailable:      doc.IsAvailable,
		EstimateRequired: doc.EstimateRequired,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

// BookingRepository implements catalog.BookingRepository on a MongoDB collection
type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) catalog.BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) bookings() *mongo.Collection {
	return r.db.collection(bookingsCollection)
}

func (r *BookingRepository) Create(ctx context.Context, b *catalog.Booking) error {
	if _, err := r.bookings().InsertOne(ctx, toBookingDocument(b)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalog.ErrReferenceTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*catalog.Booking, error) {
	var doc models.BookingDocument
	err := r.bookings().FindOne(ctx, bson.M{"service_booking_id": reference}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, catalog.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return toBookingEntity(&doc), nil
}

// dayRange matches every instant of the UTC day holding day.
func dayRange(day time.Time) bson.M {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)}
}

func bookingFilter(f catalog.BookingFilter) bson.M {
	filter := bson.M{}
	if f.ServiceType != "" {
		filter["service_type"] = f.ServiceType
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.PhoneNumber != "" {
		filter["phone_number"] = f.PhoneNumber
	}
	if f.Date != nil {
		filter["preferred_date"] = dayRange(f.Date.UTC())
	}
	return filter
}

func (r *BookingRepository) List(ctx context.Context, f catalog.BookingFilter) ([]*catalog.Booking, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "preferred_date", Value: -1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := r.bookings().Find(ctx, bookingFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	var docs []models.BookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*catalog.Booking, len(docs))
	for i := range docs {
		bookings[i] = toBookingEntity(&docs[i])
	}
	return bookings, nil
}

func bookingStatusUpdate(status catalog.BookingStatus, now time.Time) bson.M {
	return bson.M{"$set": bson.M{"status": string(status), "updated_at": now}}
}

func (r *BookingRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*catalog.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.BookingDocument
	err := r.bookings().FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return toBookingEntity(&doc), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, reference string, status catalog.BookingStatus) (*catalog.Booking, error) {
	b, err := r.findAndUpdate(ctx,
		bson.M{"service_booking_id": reference},
		bookingStatusUpdate(status, time.Now()),
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, catalog.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return b, nil
}

// cancelQuery matches the booking only while it is still open.
func cancelQuery(reference string, now time.Time) (bson.M, bson.M) {
	filter := bson.M{
		"service_booking_id": reference,
		"status": bson.M{"$nin": bson.A{
			string(catalog.BookingCompleted),
			string(catalog.BookingCancelled),
		}},
	}
	return filter, bookingStatusUpdate(catalog.BookingCancelled, now)
}

func (r *BookingRepository) Cancel(ctx context.Context, reference string) (*catalog.Booking, error) {
	filter, update := cancelQuery(reference, time.Now())
	b, err := r.findAndUpdate(ctx, filter, update)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if _, err := r.GetByReference(ctx, reference); err != nil {
		return nil, err
	}
	return nil, catalog.ErrNoMatch
}

func toBookingDocument(b *catalog.Booking) *models.BookingDocument {
	return &models.BookingDocument{
		ID:            b.ID.String(),
		Reference:     b.Reference,
		ServiceType:   b.ServiceType,
		Name:          b.Name,
		PhoneNumber:   b.PhoneNumber,
		PreferredDate: b.PreferredDate,
		PreferredTime: b.PreferredTime,
		Address:       b.Address,
		Notes:         b.Notes,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBookingEntity(doc *models.BookingDocument) *catalog.Booking {
	id, _ := uuid.Parse(doc.ID)
	return &catalog.Booking{
		ID:            id,
		Reference:     doc.Reference,
		ServiceType:   doc.ServiceType,
		Name:          doc.Name,
		PhoneNumber:   doc.PhoneNumber,
		PreferredDate: doc.PreferredDate.UTC(),
		PreferredTime: doc.PreferredTime,
		Address:       doc.Address,
		Notes:         doc.Notes,
		Status:        catalog.BookingStatus(doc.Status),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
