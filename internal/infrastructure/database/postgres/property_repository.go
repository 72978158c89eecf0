package postgres

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/property"
	"estate-brokerage/internal/infrastructure/database/postgres/models"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateRowReturning applies updates to the rows matching conditions and
// scans the first updated row into dest. It reports how many rows changed.
func updateRowReturning(ctx context.Context, db *DB, dest interface{}, conditions string, args []interface{}, updates map[string]interface{}) (int64, error) {
	result := db.DB.WithContext(ctx).Model(dest).
		Clauses(clause.Returning{}).
		Where(conditions, args...).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// PropertyRepository implements property.Repository on a relational table
type PropertyRepository struct {
	db *DB
}

func NewPropertyRepository(db *DB) property.Repository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	if err := r.db.DB.WithContext(ctx).Create(toPropertyModel(p)).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var m models.PropertyModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, property.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return toPropertyEntity(&m), nil
}

// propertyScope narrows a query to the filter. City matches case-insensitively.
func propertyScope(f property.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Type != "" {
			db = db.Where("property_type = ?", string(f.Type))
		}
		if f.Listing != "" {
			db = db.Where("listing_type = ?", string(f.Listing))
		}
		if f.Status != "" {
			db = db.Where("status = ?", string(f.Status))
		}
		if f.City != "" {
			db = db.Where("LOWER(city) = LOWER(?)", f.City)
		}
		if f.MinPrice != nil {
			db = db.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("price <= ?", *f.MaxPrice)
		}
		return db
	}
}

func (r *PropertyRepository) List(ctx context.Context, f property.Filter) ([]*property.Property, int64, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.PropertyModel{}).Scopes(propertyScope(f))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	var rows []models.PropertyModel
	err := r.db.DB.WithContext(ctx).Scopes(propertyScope(f)).
		Order("created_at DESC").
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}

	properties := make([]*property.Property, len(rows))
	for i := range rows {
		properties[i] = toPropertyEntity(&rows[i])
	}
	return properties, total, nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *property.Property) error {
	result := r.db.DB.WithContext(ctx).Model(&models.PropertyModel{}).
		Where("id = ?", p.ID).
		Select("*").Omit("id", "created_by", "created_at").
		Updates(toPropertyModel(p))
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var m models.PropertyModel
	result := r.db.DB.WithContext(ctx).Clauses(clause.Returning{}).Where("id = ?", id).Delete(&m)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, property.ErrPropertyNotFound
	}
	return toPropertyEntity(&m), nil
}

// discountUpdates sets the discounted price; nil clears it.
func discountUpdates(discounted *float64, updatedBy uuid.UUID, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"discounted_price": nil,
		"updated_by":       updatedBy,
		"updated_at":       now,
	}
	if discounted != nil {
		updates["discounted_price"] = *discounted
	}
	return updates
}

func (r *PropertyRepository) SetDiscount(ctx context.Context, id uuid.UUID, discounted *float64, updatedBy uuid.UUID) (*property.Property, error) {
	var m models.PropertyModel
	affected, err := updateRowReturning(ctx, r.db, &m, "id = ?", []interface{}{id},
		discountUpdates(discounted, updatedBy, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to set discount: %w", err)
	}
	if affected == 0 {
		return nil, property.ErrPropertyNotFound
	}
	return toPropertyEntity(&m), nil
}

func toPropertyModel(p *property.Property) *models.PropertyModel {
	return &models.PropertyModel{
		ID:               p.ID,
		Code:             p.Code,
		Title:            p.Title,
		PropertyType:     string(p.Type),
		ListingType:      string(p.Listing),
		Address:          p.Location.Address,
		Locality:         p.Location.Locality,
		City:             p.Location.City,
		PinCode:          p.Location.PinCode,
		Price:            p.Price.Amount,
		SecurityDeposit:  p.Price.SecurityDeposit,
		IsNegotiable:     p.Price.Negotiable,
		DiscountedPrice:  p.Price.Discounted,
		TotalArea:        p.Area.Total,
		AreaUnit:         p.Area.Unit,
		Bedrooms:         p.Details.Bedrooms,
		Bathrooms:        p.Details.Bathrooms,
		Balconies:        p.Details.Balconies,
		TotalFloors:      p.Details.TotalFloors,
		FloorNumber:      p.Details.FloorNumber,
		AgeOfProperty:    p.Details.AgeYears,
		FurnishingStatus: p.Details.Furnishing,
		Description:      p.Description,
		Amenities:        p.Amenities,
		Images:           p.Images,
		Status:           string(p.Status),
		ContactName:      p.Contact.Name,
		ContactEmail:     p.Contact.Email,
		ContactPhone:     p.Contact.Phone,
		ContactUserType:  p.Contact.UserType,
		IsPremiumListing: p.IsPremium,
		ExpiryDate:       p.ExpiresAt,
		CreatedBy:        p.CreatedBy,
		UpdatedBy:        p.UpdatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toPropertyEntity(m *models.PropertyModel) *property.Property {
	return &property.Property{
		ID:      m.ID,
		Code:    m.Code,
		Title:   m.Title,
		Type:    property.Type(m.PropertyType),
		Listing: property.ListingType(m.ListingType),
		Location: property.Location{
			Address:  m.Address,
			Locality: m.Locality,
			City:     m.City,
			PinCode:  m.PinCode,
		},
		Price: property.Price{
			Amount:          m.Price,
			SecurityDeposit: m.SecurityDeposit,
			Negotiable:      m.IsNegotiable,
			Discounted:      m.DiscountedPrice,
		},
		Area: property.Area{Total: m.TotalArea, Unit: m.AreaUnit},
		Details: property.Details{
			Bedrooms:    m.Bedrooms,
			Bathrooms:   m.Bathrooms,
			Balconies:   m.Balconies,
			TotalFloors: m.TotalFloors,
			FloorNumber: m.FloorNumber,
			AgeYears:    m.AgeOfProperty,
			Furnishing:  m.FurnishingStatus,
		},
		Description: m.Description,
		Amenities:   m.Amenities,
		Images:      m.Images,
		Status:      property.Status(m.Status),
		Contact: property.Contact{
			Name:     m.ContactName,
			Email:    m.ContactEmail,
			Phone:    m.ContactPhone,
			UserType: m.ContactUserType,
		},
		IsPremium: m.IsPremiumListing,
		ExpiresAt: m.ExpiryDate,
		CreatedBy: m.CreatedBy,
		UpdatedBy: m.UpdatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// InquiryRepository implements property.InquiryRepository on a relational table
type InquiryRepository struct {
	db *DB
}

func NewInquiryRepository(db *DB) property.InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, i *property.Inquiry) error {
	if err := r.db.DB.WithContext(ctx).Create(toInquiryModel(i)).Error; err != nil {
		return fmt.Errorf("failed to create property form: %w", err)
	}
	return nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*property.Inquiry, error) {
	var m models.InquiryModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, property.ErrInquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property form: %w", err)
	}
	return toInquiryEntity(&m), nil
}

func (r *InquiryRepository) List(ctx context.Context, f property.InquiryFilter) ([]*property.Inquiry, error) {
	query := r.db.DB.WithContext(ctx).Order("created_at DESC")
	if f.PropertyID != nil {
		query = query.Where("property_id = ?", *f.PropertyID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", string(f.Status))
	}

	var rows []models.InquiryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list property forms: %w", err)
	}

	inquiries := make([]*property.Inquiry, len(rows))
	for i := range rows {
		inquiries[i] = toInquiryEntity(&rows[i])
	}
	return inquiries, nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status property.InquiryStatus) (*property.Inquiry, error) {
	var m models.InquiryModel
	affected, err := updateRowReturning(ctx, r.db, &m, "id = ?", []interface{}{id}, map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update property form: %w", err)
	}
	if affected == 0 {
		return nil, property.ErrInquiryNotFound
	}
	return toInquiryEntity(&m), nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.InquiryModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete property form: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return property.ErrInquiryNotFound
	}
	return nil
}

func toInquiryModel(i *property.Inquiry) *models.InquiryModel {
	return &models.InquiryModel{
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

func toInquiryEntity(m *models.InquiryModel) *property.Inquiry {
	return &property.Inquiry{
		ID:          m.ID,
		PropertyID:  m.PropertyID,
		Name:        m.Name,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Message:     m.Message,
		Status:      property.InquiryStatus(m.Status),
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
