package contact

import (
	"context"
	"errors"
	domainContact "estate-brokerage/internal/domain/contact"
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
	referencePrefix      = "CNT"
	referenceDigits      = 12
	maxReferenceAttempts = 3
	dateLayout           = "2006-01-02"
)

// Service implements the contact form use cases
type Service struct {
	messages domainContact.Repository
	now      func() time.Time
}

// NewService creates a new contact service
func NewService(messages domainContact.Repository) *Service {
	return &Service{messages: messages, now: time.Now}
}

// Submit stores a contact form submission as a new message.
func (s *Service) Submit(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	m, err := s.submit(ctx, req)
	metrics.RecordListing("contact", "create", err)
	return m, err
}

func (s *Service) submit(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	req.FullName = utils.SanitizeIdentifier(req.FullName)
	req.Email = utils.SanitizeEmail(req.Email)
	req.PhoneNumber = utils.SanitizePhone(req.PhoneNumber)
	req.Subject = utils.SanitizeIdentifier(req.Subject)
	req.Message = utils.SanitizeIdentifier(req.Message)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	now := s.now()
	m := &domainContact.Message{
		ID:          uuid.New(),
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Subject:     req.Subject,
		Body:        req.Message,
		Status:      domainContact.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 1; ; attempt++ {
		reference, err := utils.GenerateNumericCode(referenceDigits)
		if err != nil {
			return nil, err
		}
		m.Reference = referencePrefix + reference

		err = s.messages.Create(ctx, m)
		if err == nil {
			break
		}
		if !errors.Is(err, domainContact.ErrReferenceTaken) || attempt == maxReferenceAttempts {
			return nil, fmt.Errorf("failed to submit contact form: %w", err)
		}
	}

	logger.Info("Contact form submitted",
		zap.String("contact_id", m.Reference),
		zap.String("event", "contact_submitted"),
	)
	return ToMessageResponse(m), nil
}

func (s *Service) List(ctx context.Context, q *ListQuery) ([]*MessageResponse, error) {
	q.Email = utils.SanitizeEmail(q.Email)
	if err := utils.ValidateStruct(q); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	filter := domainContact.Filter{
		Status: domainContact.Status(q.Status),
		Email:  q.Email,
	}
	if q.Date != "" {
		day, _ := time.Parse(dateLayout, q.Date)
		filter.Date = &day
	}

	messages, err := s.messages.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	responses := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, ToMessageResponse(m))
	}
	return responses, nil
}

func (s *Service) Get(ctx context.Context, reference string) (*MessageResponse, error) {
	m, err := s.messages.GetByReference(ctx, reference)
	if err != nil {
		return nil, contactError(err, "get")
	}
	return ToMessageResponse(m), nil
}

func (s *Service) UpdateStatus(ctx context.Context, reference string, req *StatusRequest) (*MessageResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	m, err := s.messages.UpdateStatus(ctx, reference, domainContact.Status(req.Status))
	metrics.RecordListing("contact", "update_status", err)
	if err != nil {
		return nil, contactError(err, "update")
	}

	logger.Info("Contact status updated",
		zap.String("contact_id", reference),
		zap.String("status", req.Status),
	)
	return ToMessageResponse(m), nil
}

func (s *Service) Delete(ctx context.Context, reference string) error {
	err := s.messages.Delete(ctx, reference)
	metrics.RecordListing("contact", "delete", err)
	if err != nil {
		return contactError(err, "delete")
	}

	logger.Info("Contact deleted", zap.String("contact_id", reference))
	return nil
}

func contactError(err error, op string) error {
	if errors.Is(err, domainContact.ErrMessageNotFound) {
		return appErrors.ErrContactNotFound
	}
	return fmt.Errorf("failed to %s contact: %w", op, err)
}
