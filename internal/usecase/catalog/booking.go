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

const (
	bookingPrefix        = "SB"
	referenceDigits      = 12
	maxReferenceAttempts = 3
)

// CreateBooking records an appointment request. The preferred date may be
// today but not earlier.
func (s *Service) CreateBooking(ctx context.Context, req *BookingRequest) (*BookingResponse, error) {
	b, err := s.createBooking(ctx, req)
	metrics.RecordListing("booking", "create", err)
	return b, err
}

func (s *Service) createBooking(ctx context.Context, req *BookingRequest) (*BookingResponse, error) {
	req.ServiceType = utils.SanitizeIdentifier(req.ServiceType)
	req.Name = utils.SanitizeIdentifier(req.Name)
	req.PhoneNumber = utils.SanitizePhone(req.PhoneNumber)
	req.PreferredDate = utils.SanitizeIdentifier(req.PreferredDate)
	req.PreferredTime = utils.SanitizeIdentifier(req.PreferredTime)
	req.Address = utils.SanitizeIdentifier(req.Address)
	req.Notes = utils.SanitizeIdentifier(req.Notes)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	preferred, _ := time.Parse(dateLayout, req.PreferredDate)
	now := s.now()
	if preferred.Before(startOfDay(now)) {
		return nil, appErrors.NewValidationError(map[string]string{
			"preferred_date": "cannot be in the past",
		}, nil)
	}

	b := &domainCatalog.Booking{
		ID:            uuid.New(),
		ServiceType:   req.ServiceType,
		Name:          req.Name,
		PhoneNumber:   req.PhoneNumber,
		PreferredDate: preferred,
		PreferredTime: req.PreferredTime,
		Address:       req.Address,
		Notes:         req.Notes,
		Status:        domainCatalog.BookingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for attempt := 1; ; attempt++ {
		reference, err := utils.GenerateNumericCode(referenceDigits)
		if err != nil {
			return nil, err
		}
		b.Reference = bookingPrefix + reference

		err = s.bookings.Create(ctx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, domainCatalog.ErrReferenceTaken) || attempt == maxReferenceAttempts {
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
	}

	logger.Info("Service booking created",
		zap.String("booking_id", b.Reference),
		zap.String("service_type", b.ServiceType),
		zap.String("event", "booking_created"),
	)
	return ToBookingResponse(b), nil
}

func (s *Service) ListBookings(ctx context.Context, q *BookingListQuery) ([]*BookingResponse, error) {
	q.PhoneNumber = utils.SanitizePhone(q.PhoneNumber)
	if err := utils.ValidateStruct(q); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	filter := domainCatalog.BookingFilter{
		ServiceType: utils.SanitizeIdentifier(q.ServiceType),
		Status:      domainCatalog.BookingStatus(q.Status),
		PhoneNumber: q.PhoneNumber,
	}
	if q.Date != "" {
		day, _ := time.Parse(dateLayout, q.Date)
		filter.Date = &day
	}

	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	responses := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, ToBookingResponse(b))
	}
	return responses, nil
}

func (s *Service) GetBooking(ctx context.Context, reference string) (*BookingResponse, error) {
	b, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, bookingError(err, "get")
	}
	return ToBookingResponse(b), nil
}

func (s *Service) UpdateBookingStatus(ctx context.Context, reference string, req *BookingStatusRequest) (*BookingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	b, err := s.bookings.UpdateStatus(ctx, reference, domainCatalog.BookingStatus(req.Status))
	metrics.RecordListing("booking", "update_status", err)
	if err != nil {
		return nil, bookingError(err, "update")
	}

	logger.Info("Service booking status updated",
		zap.String("booking_id", reference),
		zap.String("status", req.Status),
	)
	return ToBookingResponse(b), nil
}

// CancelBooking cancels a booking that is neither completed nor already cancelled.
func (s *Service) CancelBooking(ctx context.Context, reference string) (*BookingResponse, error) {
	b, err := s.bookings.Cancel(ctx, reference)
	metrics.RecordListing("booking", "cancel", err)
	if err != nil {
		if errors.Is(err, domainCatalog.ErrNoMatch) {
			return nil, appErrors.ErrBookingNotCancellable
		}
		return nil, bookingError(err, "cancel")
	}

	logger.Info("Service booking cancelled",
		zap.String("booking_id", reference),
		zap.String("event", "booking_cancelled"),
	)
	return ToBookingResponse(b), nil
}

func bookingError(err error, op string) error {
	if errors.Is(err, domainCatalog.ErrBookingNotFound) {
		return appErrors.ErrBookingNotFound
	}
	return fmt.Errorf("failed to %s booking: %w", op, err)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
