package postgres

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/catalog"
	"estate-brokerage/internal/infrastructure/database/postgres/models"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// OfferingRepository implements catalog.OfferingRepository on a relational table
type OfferingRepository struct {
	db *DB
}

func NewOfferingRepository(db *DB) catalog.OfferingRepository {
	return &OfferingRepository{db: db}
}

func (r *OfferingRepository) Create(ctx context.Context, o *catalog.Offering) error {
	if err := r.db.DB.WithContext(ctx).Create(toOfferingModel(o)).Error; err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *OfferingRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Offering, error) {
	var m models.OfferingModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return toOfferingEntity(&m), nil
}

func (r *OfferingRepository) List(ctx context.Context, f catalog.OfferingFilter) ([]*catalog.Offering, error) {
	query := r.db.DB.WithContext(ctx).Order("created_at DESC")
	if f.Category != "" {
		query = query.Where("category = ?", string(f.Category))
	}
	if f.PricingType != "" {
		query = query.Where("pricing_type = ?", string(f.PricingType))
	}
	if f.IsAvailable != nil {
		query = query.Where("is_available = ?", *f.IsAvailable)
	}
	if f.EstimateRequired != nil {
		query = query.Where("estimate_required = ?", *f.EstimateRequired)
	}

	var rows []models.OfferingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	offerings := make([]*catalog.Offering, len(rows))
	for i := range rows {
		offerings[i] = toOfferingEntity(&rows[i])
	}
	return offerings, nil
}

func (r *OfferingRepository) Update(ctx context.Context, o *catalog.Offering) error {
	result := r.db.DB.WithContext(ctx).Model(&models.OfferingModel{}).
		Where("id = ?", o.ID).
		Select("*").Omit("id", "created_at").
		Updates(toOfferingModel(o))
	if result.Error != nil {
		return fmt.Errorf("failed to update service: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrOfferingNotFound
	}
	return nil
}

func (r *OfferingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.OfferingModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete service: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrOfferingNotFound
	}
	return nil
}

// ToggleAvailability negates the column in the statement itself so two
// concurrent toggles cannot both read the same value.
func (r *OfferingRepository) ToggleAvailability(ctx context.Context, id uuid.UUID) (*catalog.Offering, error) {
	var m models.OfferingModel
	affected, err := updateRowReturning(ctx, r.db, &m, "id = ?", []interface{}{id}, map[string]interface{}{
		"is_available": gorm.Expr("NOT is_available"),
		"updated_at":   time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle service availability: %w", err)
	}
	if affected == 0 {
		return nil, catalog.ErrOfferingNotFound
	}
	return toOfferingEntity(&m), nil
}

func toOfferingModel(o *catalog.Offering) *models.OfferingModel {
	return &models.OfferingModel{
		ID:               o.ID,
		Name:             o.Name,
		Category:         string(o.Category),
		Description:      o.Description,
		PricingType:      string(o.Pricing.Type),
		Amount:           o.Pricing.Amount,
		MinAmount:        o.Pricing.MinAmount,
		MaxAmount:        o.Pricing.MaxAmount,
		Unit:             o.Pricing.Unit,
		Features:         o.Features,
		Images:           o.Images,
		IsAvailable:      o.IsAvailable,
		EstimateRequired: o.EstimateRequired,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func toOfferingEntity(m *models.OfferingModel) *catalog.Offering {
	return &catalog.Offering{
		ID:          m.ID,
		Name:        m.Name,
		Category:    catalog.Category(m.Category),
		Description: m.Description,
		Pricing: catalog.Pricing{
			Type:      catalog.PricingType(m.PricingType),
			Amount:    m.Amount,
			MinAmount: m.MinAmount,
			MaxAmount: m.MaxAmount,
			Unit:      m.Unit,
		},
		Features:         m.Features,
		Images:           m.Images,
		IsAvailable:      m.IsAvailable,
		EstimateRequired: m.EstimateRequired,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// BookingRepository implements catalog.BookingRepository on a relational table
type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) catalog.BookingRepository {
	return &BookingRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *BookingRepository) Create(ctx context.Context, b *catalog.Booking) error {
	if err := r.db.DB.WithContext(ctx).Create(toBookingModel(b)).Error; err != nil {
		if isUniqueViolation(err) {
			return catalog.ErrReferenceTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*catalog.Booking, error) {
	var m models.BookingModel
	err := r.db.DB.WithContext(ctx).Where("reference = ?", reference).First(&m).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return toBookingEntity(&m), nil
}

// utcDay returns the bounds of the UTC day holding t.
func utcDay(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func (r *BookingRepository) List(ctx context.Context, f catalog.BookingFilter) ([]*catalog.Booking, error) {
	query := r.db.DB.WithContext(ctx).Order("preferred_date DESC, created_at DESC")
	if f.ServiceType != "" {
		query = query.Where("service_type = ?", f.ServiceType)
	}
	if f.Status != "" {
		query = query.Where("status = ?", string(f.Status))
	}
	if f.PhoneNumber != "" {
		query = query.Where("phone_number = ?", f.PhoneNumber)
	}
	if f.Date != nil {
		start, end := utcDay(*f.Date)
		query = query.Where("preferred_date >= ? AND preferred_date < ?", start, end)
	}

	var rows []models.BookingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*catalog.Booking, len(rows))
	for i := range rows {
		bookings[i] = toBookingEntity(&rows[i])
	}
	return bookings, nil
}

func statusUpdates(status string, now time.Time) map[string]interface{} {
	return map[string]interface{}{"status": status, "updated_at": now}
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, reference string, status catalog.BookingStatus) (*catalog.Booking, error) {
	var m models.BookingModel
	affected, err := updateRowReturning(ctx, r.db, &m, "reference = ?", []interface{}{reference},
		statusUpdates(string(status), time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if affected == 0 {
		return nil, catalog.ErrBookingNotFound
	}
	return toBookingEntity(&m), nil
}

// openBookingGuard holds while the booking is neither completed nor cancelled.
const openBookingGuard = "reference = ? AND status NOT IN ?"

func (r *BookingRepository) Cancel(ctx context.Context, reference string) (*catalog.Booking, error) {
	var m models.BookingModel
	final := []string{string(catalog.BookingCompleted), string(catalog.BookingCancelled)}

	affected, err := updateRowReturning(ctx, r.db, &m, openBookingGuard, []interface{}{reference, final},
		statusUpdates(string(catalog.BookingCancelled), time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if affected > 0 {
		return toBookingEntity(&m), nil
	}

	if _, err := r.GetByReference(ctx, reference); err != nil {
		return nil, err
	}
	return nil, catalog.ErrNoMatch
}

func toBookingModel(b *catalog.Booking) *models.BookingModel {
	return &models.BookingModel{
		ID:            b.ID,
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

func toBookingEntity(m *models.BookingModel) *catalog.Booking {
	return &catalog.Booking{
		ID:            m.ID,
		Reference:     m.Reference,
		ServiceType:   m.ServiceType,
		Name:          m.Name,
		PhoneNumber:   m.PhoneNumber,
		PreferredDate: m.PreferredDate.UTC(),
		PreferredTime: m.PreferredTime,
		Address:       m.Address,
		Notes:         m.Notes,
		Status:        catalog.BookingStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
