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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateInquiry records a visitor's request about a listed property. userID
// is nil for anonymous visitors.
func (s *Service) CreateInquiry(ctx context.Context, req *InquiryRequest, userID *uuid.UUID) (*InquiryCreatedResponse, error) {
	resp, err := s.createInquiry(ctx, req, userID)
	metrics.RecordListing("inquiry", "create", err)
	return resp, err
}

func (s *Service) createInquiry(ctx context.Context, req *InquiryRequest, userID *uuid.UUID) (*InquiryCreatedResponse, error) {
	req.Name = utils.SanitizeIdentifier(req.Name)
	req.Email = utils.SanitizeEmail(req.Email)
	req.PhoneNumber = utils.SanitizePhone(req.PhoneNumber)
	req.Message = utils.SanitizeIdentifier(req.Message)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	propertyID, _ := parseID(req.PropertyID)
	if _, err := s.get(ctx, propertyID); err != nil {
		return nil, err
	}

	now := s.now()
	inquiry := &domainProperty.Inquiry{
		ID:          uuid.New(),
		PropertyID:  propertyID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Message:     req.Message,
		Status:      domainProperty.InquiryRequested,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create property form: %w", err)
	}

	logger.Info("Property form submitted",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("property_id", propertyID.String()),
		zap.String("event", "property_form_created"),
	)

	return &InquiryCreatedResponse{
		Message:         "Property form created",
		PropertyDetails: ToInquiryResponse(inquiry),
	}, nil
}

func (s *Service) ListInquiries(ctx context.Context, q *InquiryListQuery) ([]*InquiryResponse, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	filter := domainProperty.InquiryFilter{Status: domainProperty.InquiryStatus(q.Status)}
	if q.PropertyID != "" {
		id, _ := parseID(q.PropertyID)
		filter.PropertyID = &id
	}

	inquiries, err := s.inquiries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list property forms: %w", err)
	}

	responses := make([]*InquiryResponse, 0, len(inquiries))
	for _, inquiry := range inquiries {
		responses = append(responses, ToInquiryResponse(inquiry))
	}
	return responses, nil
}

func (s *Service) GetInquiry(ctx context.Context, id uuid.UUID) (*InquiryResponse, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, inquiryError(err, "get")
	}
	return ToInquiryResponse(inquiry), nil
}

func (s *Service) UpdateInquiryStatus(ctx context.Context, id uuid.UUID, req *InquiryStatusRequest) (*InquiryResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	inquiry, err := s.inquiries.UpdateStatus(ctx, id, domainProperty.InquiryStatus(req.Status))
	metrics.RecordListing("inquiry", "update_status", err)
	if err != nil {
		return nil, inquiryError(err, "update")
	}

	logger.Info("Property form status updated",
		zap.String("inquiry_id", id.String()),
		zap.String("status", req.Status),
	)
	return ToInquiryResponse(inquiry), nil
}

func (s *Service) DeleteInquiry(ctx context.Context, id uuid.UUID) error {
	err := s.inquiries.Delete(ctx, id)
	metrics.RecordListing("inquiry", "delete", err)
	if err != nil {
		return inquiryError(err, "delete")
	}

	logger.Info("Property form deleted", zap.String("inquiry_id", id.String()))
	return nil
}

func inquiryError(err error, op string) error {
	if errors.Is(err, domainProperty.ErrInquiryNotFound) {
		return appErrors.ErrInquiryNotFound
	}
	return fmt.Errorf("failed to %s property form: %w", op, err)
}
