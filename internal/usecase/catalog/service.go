package catalog

import (
	"context"
	"errors"
	domainCatalog "estate-brokerage/internal/domain/catalog"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/metrics"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the service catalog and booking use cases
type Service struct {
	offerings domainCatalog.OfferingRepository
	bookings  domainCatalog.BookingRepository
	now       func() time.Time
}

// NewService creates a new catalog service
func NewService(offerings domainCatalog.OfferingRepository, bookings domainCatalog.BookingRepository) *Service {
	return &Service{
		offerings: offerings,
		bookings:  bookings,
		now:       time.Now,
	}
}

func (s *Service) ListOfferings(ctx context.Context, q *OfferingListQuery) ([]*OfferingResponse, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	offerings, err := s.offerings.List(ctx, domainCatalog.OfferingFilter{
		Category:         domainCatalog.Category(q.Category),
		PricingType:      domainCatalog.PricingType(q.PricingType),
		IsAvailable:      q.IsAvailable,
		EstimateRequired: q.EstimateRequired,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	responses := make([]*OfferingResponse, 0, len(offerings))
	for _, o := range offerings {
		responses = append(responses, ToOfferingResponse(o))
	}
	return responses, nil
}

func (s *Service) GetOffering(ctx context.Context, id uuid.UUID) (*OfferingResponse, error) {
	o, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		return nil, offeringError(err, "get")
	}
	return ToOfferingResponse(o), nil
}

func (s *Service) CreateOffering(ctx context.Context, req *OfferingRequest) (*OfferingResponse, error) {
	if err := validateOffering(req); err != nil {
		return nil, err
	}

	now := s.now()
	o := &domainCatalog.Offering{ID: uuid.New(), CreatedAt: now}
	applyOffering(o, req, now)

	err := s.offerings.Create(ctx, o)
	metrics.RecordListing("service", "create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	logger.Info("Service created",
		zap.String("service_id", o.ID.String()),
		zap.String("category", string(o.Category)),
	)
	return ToOfferingResponse(o), nil
}

func (s *Service) UpdateOffering(ctx context.Context, id uuid.UUID, req *OfferingRequest) (*OfferingResponse, error) {
	if err := validateOffering(req); err != nil {
		return nil, err
	}

	o, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		return nil, offeringError(err, "get")
	}
	applyOffering(o, req, s.now())

	err = s.offerings.Update(ctx, o)
	metrics.RecordListing("service", "update", err)
	if err != nil {
		return nil, offeringError(err, "update")
	}

	logger.Info("Service updated", zap.String("service_id", id.String()))
	return ToOfferingResponse(o), nil
}

func (s *Service) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	err := s.offerings.Delete(ctx, id)
	metrics.RecordListing("service", "delete", err)
	if err != nil {
		return offeringError(err, "delete")
	}

	logger.Info("Service deleted", zap.String("service_id", id.String()))
	return nil
}

func (s *Service) ToggleAvailability(ctx context.Context, id uuid.UUID) (*OfferingResponse, error) {
	o, err := s.offerings.ToggleAvailability(ctx, id)
	metrics.RecordListing("service", "toggle_availability", err)
	if err != nil {
		return nil, offeringError(err, "update")
	}

	logger.Info("Service availability toggled",
		zap.String("service_id", id.String()),
		zap.Bool("is_available", o.IsAvailable),
	)
	return ToOfferingResponse(o), nil
}

// validateOffering checks the amounts each pricing type needs.
func validateOffering(req *OfferingRequest) error {
	req.Name = utils.SanitizeIdentifier(req.Name)
	req.Description = utils.SanitizeIdentifier(req.Description)
	req.Unit = utils.SanitizeIdentifier(req.Unit)
	for i, f := range req.Features {
		req.Features[i] = utils.SanitizeIdentifier(f)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	fields := map[string]string{}
	switch domainCatalog.PricingType(req.PricingType) {
	case domainCatalog.PricingFixed:
		if req.Amount == nil {
			fields["amount"] = "is required for fixed pricing"
		}
	case domainCatalog.PricingRange:
		if req.MinAmount == nil {
			fields["minAmount"] = "is required for range pricing"
		}
		if req.MaxAmount == nil {
			fields["maxAmount"] = "is required for range pricing"
		}
		if req.MinAmount != nil && req.MaxAmount != nil && *req.MinAmount > *req.MaxAmount {
			fields["maxAmount"] = "must not be less than minAmount"
		}
	}
	if len(fields) > 0 {
		return appErrors.NewValidationError(fields, nil)
	}
	return nil
}

func applyOffering(o *domainCatalog.Offering, req *OfferingRequest, now time.Time) {
	o.Name = req.Name
	o.Category = domainCatalog.Category(req.Category)
	o.Description = req.Description
	o.Pricing = domainCatalog.Pricing{
		Type:      domainCatalog.PricingType(req.PricingType),
		Amount:    req.Amount,
		MinAmount: req.MinAmount,
		MaxAmount: req.MaxAmount,
		Unit:      req.Unit,
	}
	o.Features = req.Features
	o.Images = req.Images
	o.IsAvailable = req.IsAvailable == nil || *req.IsAvailable
	o.EstimateRequired = req.EstimateRequired
	o.UpdatedAt = now
}

func offeringError(err error, op string) error {
	if errors.Is(err, domainCatalog.ErrOfferingNotFound) {
		return appErrors.ErrServiceNotFound
	}
	return fmt.Errorf("failed to %s service: %w", op, err)
}
