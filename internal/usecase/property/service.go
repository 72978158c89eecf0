package property

import (
	"context"
	"errors"
	domainProperty "estate-brokerage/internal/domain/property"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/metrics"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements listing and inquiry use cases
type Service struct {
	properties domainProperty.Repository
	inquiries  domainProperty.InquiryRepository
	images     domainProperty.ImageStore
	maxImages  int
	now        func() time.Time
}

// NewService creates a new property service
func NewService(
	properties domainProperty.Repository,
	inquiries domainProperty.InquiryRepository,
	images domainProperty.ImageStore,
	maxImages int,
) *Service {
	return &Service{
		properties: properties,
		inquiries:  inquiries,
		images:     images,
		maxImages:  maxImages,
		now:        time.Now,
	}
}

// MaxImages is the number of photos one listing may carry.
func (s *Service) MaxImages() int {
	return s.maxImages
}

func (s *Service) List(ctx context.Context, q *ListQuery) (*PropertyPage, error) {
	q.City = utils.SanitizeIdentifier(q.City)

	if err := utils.ValidateStruct(q); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, appErrors.NewValidationError(map[string]string{
			"maxPrice": "must not be less than minPrice",
		}, nil)
	}

	filter := domainProperty.Filter{
		Type:     domainProperty.Type(q.PropertyType),
		Listing:  domainProperty.ListingType(q.ListingType),
		City:     q.City,
		Status:   domainProperty.Status(q.Status),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Page:     q.Page,
		Limit:    q.Limit,
	}.Normalize()

	properties, total, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	page := &PropertyPage{
		Properties: make([]*PropertyResponse, 0, len(properties)),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, p := range properties {
		page.Properties = append(page.Properties, ToPropertyResponse(p))
	}

	return page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPropertyResponse(p), nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*domainProperty.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainProperty.ErrPropertyNotFound) {
			return nil, appErrors.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

// Create publishes a listing on behalf of adminID with the given photos.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, req *PropertyRequest, images []*utils.Image) (*PropertyResponse, error) {
	p, err := s.create(ctx, adminID, req, images)
	metrics.RecordListing("property", "create", err)
	return p, err
}

func (s *Service) create(ctx context.Context, adminID uuid.UUID, req *PropertyRequest, images []*utils.Image) (*PropertyResponse, error) {
	if err := s.validateProperty(req, images); err != nil {
		return nil, err
	}

	names, err := s.storeImages(ctx, images)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &domainProperty.Property{
		ID:        uuid.New(),
		Images:    names,
		Status:    domainProperty.StatusAvailable,
		CreatedBy: adminID,
		CreatedAt: now,
	}
	applyRequest(p, req, adminID, now)

	if err := s.properties.Create(ctx, p); err != nil {
		s.discardImages(context.WithoutCancel(ctx), names)
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	logger.Info("Property added",
		zap.String("property_id", p.ID.String()),
		logger.UserID(adminID),
		zap.Int("images", len(names)),
		zap.String("event", "property_created"),
	)

	return ToPropertyResponse(p), nil
}

// Update replaces the listing's details. Photos are replaced only when new
// ones are uploaded. A discount that no longer undercuts the price is dropped.
func (s *Service) Update(ctx context.Context, adminID, id uuid.UUID, req *PropertyRequest, images []*utils.Image) (*PropertyResponse, error) {
	p, err := s.update(ctx, adminID, id, req, images)
	metrics.RecordListing("property", "update", err)
	return p, err
}

func (s *Service) update(ctx context.Context, adminID, id uuid.UUID, req *PropertyRequest, images []*utils.Image) (*PropertyResponse, error) {
	if err := s.validateProperty(req, images); err != nil {
		return nil, err
	}

	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	names, err := s.storeImages(ctx, images)
	if err != nil {
		return nil, err
	}

	var replaced []string
	if len(names) > 0 {
		replaced = p.Images
		p.Images = names
	}
	applyRequest(p, req, adminID, s.now())
	if p.Price.Discounted != nil && *p.Price.Discounted >= p.Price.Amount {
		p.Price.Discounted = nil
	}

	if err := s.properties.Update(ctx, p); err != nil {
		s.discardImages(context.WithoutCancel(ctx), names)
		if errors.Is(err, domainProperty.ErrPropertyNotFound) {
			return nil, appErrors.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	s.discardImages(ctx, replaced)

	logger.Info("Property updated",
		zap.String("property_id", p.ID.String()),
		logger.UserID(adminID),
		zap.String("event", "property_updated"),
	)

	return ToPropertyResponse(p), nil
}

// Delete removes the listing and then its photos.
func (s *Service) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	p, err := s.properties.Delete(ctx, id)
	metrics.RecordListing("property", "delete", err)
	if err != nil {
		if errors.Is(err, domainProperty.ErrPropertyNotFound) {
			return appErrors.ErrPropertyNotFound
		}
		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.discardImages(ctx, p.Images)

	logger.Info("Property deleted",
		zap.String("property_id", id.String()),
		logger.UserID(adminID),
		zap.String("event", "property_deleted"),
	)
	return nil
}

// SetDiscount sets a discounted price below the asking price, or clears it.
func (s *Service) SetDiscount(ctx context.Context, adminID, id uuid.UUID, req *DiscountRequest) error {
	err := s.setDiscount(ctx, adminID, id, req)
	metrics.RecordListing("property", "discount", err)
	return err
}

func (s *Service) setDiscount(ctx context.Context, adminID, id uuid.UUID, req *DiscountRequest) error {
	if req.DiscountedPrice != nil && *req.DiscountedPrice == 0 {
		req.DiscountedPrice = nil
	}
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	p, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if req.DiscountedPrice != nil && *req.DiscountedPrice >= p.Price.Amount {
		return appErrors.NewValidationError(map[string]string{
			"discountedPrice": "must be less than the price",
		}, nil)
	}

	if _, err := s.properties.SetDiscount(ctx, id, req.DiscountedPrice, adminID); err != nil {
		if errors.Is(err, domainProperty.ErrPropertyNotFound) {
			return appErrors.ErrPropertyNotFound
		}
		return fmt.Errorf("failed to set discount: %w", err)
	}

	logger.Info("Property discount updated",
		zap.String("property_id", id.String()),
		logger.UserID(adminID),
		zap.Bool("discounted", req.DiscountedPrice != nil),
	)
	return nil
}

// OpenImage streams a listing photo. Names that are not plain file names
// are rejected.
func (s *Service) OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if !utils.IsPlainFileName(name) {
		return nil, "", appErrors.ErrImageNotFound
	}
	return s.images.Open(ctx, name)
}

func (s *Service) validateProperty(req *PropertyRequest, images []*utils.Image) error {
	sanitizeProperty(req)

	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewValidationError(utils.FieldErrors(err), err)
	}
	if len(images) > s.maxImages {
		return appErrors.ErrTooManyImages
	}
	return nil
}

func sanitizeProperty(req *PropertyRequest) {
	req.Code = utils.SanitizeIdentifier(req.Code)
	req.Title = utils.SanitizeIdentifier(req.Title)
	req.Address = utils.SanitizeIdentifier(req.Address)
	req.Locality = utils.SanitizeIdentifier(req.Locality)
	req.City = utils.SanitizeIdentifier(req.City)
	req.PinCode = utils.SanitizeIdentifier(req.PinCode)
	req.Description = utils.SanitizeIdentifier(req.Description)
	req.ContactName = utils.SanitizeIdentifier(req.ContactName)
	req.ContactEmail = utils.SanitizeEmail(req.ContactEmail)
	req.ContactPhone = utils.SanitizePhone(req.ContactPhone)

	amenities := req.Amenities[:0]
	for _, a := range req.Amenities {
		if a = utils.SanitizeIdentifier(a); a != "" {
			amenities = append(amenities, a)
		}
	}
	req.Amenities = amenities
}

// applyRequest copies the editable fields of req onto p.
func applyRequest(p *domainProperty.Property, req *PropertyRequest, adminID uuid.UUID, now time.Time) {
	p.Code = req.Code
	p.Title = req.Title
	p.Type = domainProperty.Type(req.PropertyType)
	p.Listing = domainProperty.ListingType(req.ListingType)
	p.Location = domainProperty.Location{
		Address:  req.Address,
		Locality: req.Locality,
		City:     req.City,
		PinCode:  req.PinCode,
	}
	p.Price.Amount = req.Price
	p.Price.SecurityDeposit = req.SecurityDeposit
	p.Price.Negotiable = req.IsNegotiable
	p.Area = domainProperty.Area{Total: req.TotalArea, Unit: req.AreaUnit}
	p.Details = domainProperty.Details{
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Balconies:   req.Balconies,
		TotalFloors: req.TotalFloors,
		FloorNumber: req.FloorNumber,
		AgeYears:    req.AgeOfProperty,
		Furnishing:  req.Furnishing,
	}
	p.Description = req.Description
	p.Amenities = req.Amenities
	if req.Status != "" {
		p.Status = domainProperty.Status(req.Status)
	}
	p.Contact = domainProperty.Contact{
		Name:     req.ContactName,
		Email:    req.ContactEmail,
		Phone:    req.ContactPhone,
		UserType: req.ContactUserType,
	}
	p.IsPremium = req.IsPremium
	p.ExpiresAt = req.ExpiryDate
	p.UpdatedBy = adminID
	p.UpdatedAt = now
}

// storeImages saves every photo or none.
func (s *Service) storeImages(ctx context.Context, images []*utils.Image) ([]string, error) {
	names := make([]string, 0, len(images))
	for _, img := range images {
		name, err := s.images.Save(ctx, img.Data, img.ContentType, img.Extension)
		if err != nil {
			s.discardImages(context.WithoutCancel(ctx), names)
			return nil, fmt.Errorf("failed to store property image: %w", err)
		}
		names = append(names, name)
	}
	return names, nil
}

// discardImages deletes stored photos. Failures leave orphans and are only logged.
func (s *Service) discardImages(ctx context.Context, names []string) {
	for _, name := range names {
		if err := s.images.Delete(ctx, name); err != nil {
			logger.Warn("Failed to delete property image",
				zap.String("image", name),
				zap.Error(err),
			)
		}
	}
}

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	return id, err == nil
}
