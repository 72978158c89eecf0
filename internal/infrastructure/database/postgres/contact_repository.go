package postgres

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/contact"
	"estate-brokerage/internal/infrastructure/database/postgres/models"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ContactRepository implements contact.Repository on a relational table
type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) contact.Repository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, m *contact.Message) error {
	if err := r.db.DB.WithContext(ctx).Create(toContactModel(m)).Error; err != nil {
		if isUniqueViolation(err) {
			return contact.ErrReferenceTaken
		}
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetByReference(ctx context.Context, reference string) (*contact.Message, error) {
	var row models.ContactModel
	err := r.db.DB.WithContext(ctx).Where("reference = ?", reference).First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, contact.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return toContactEntity(&row), nil
}

func (r *ContactRepository) List(ctx context.Context, f contact.Filter) ([]*contact.Message, error) {
	query := r.db.DB.WithContext(ctx).Order("created_at DESC")
	if f.Status != "" {
		query = query.Where("status = ?", string(f.Status))
	}
	if f.Email != "" {
		query = query.Where("email = ?", f.Email)
	}
	if f.Date != nil {
		start, end := utcDay(*f.Date)
		query = query.Where("created_at >= ? AND created_at < ?", start, end)
	}

	var rows []models.ContactModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}

	messages := make([]*contact.Message, len(rows))
	for i := range rows {
		messages[i] = toContactEntity(&rows[i])
	}
	return messages, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, reference string, status contact.Status) (*contact.Message, error) {
	var row models.ContactModel
	affected, err := updateRowReturning(ctx, r.db, &row, "reference = ?", []interface{}{reference},
		statusUpdates(string(status), time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}
	if affected == 0 {
		return nil, contact.ErrMessageNotFound
	}
	return toContactEntity(&row), nil
}

func (r *ContactRepository) Delete(ctx context.Context, reference string) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.ContactModel{}, "reference = ?", reference)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return contact.ErrMessageNotFound
	}
	return nil
}

func toContactModel(m *contact.Message) *models.ContactModel {
	return &models.ContactModel{
		ID:          m.ID,
		Reference:   m.Reference,
		FullName:    m.FullName,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Subject:     m.Subject,
		Message:     m.Body,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toContactEntity(row *models.ContactModel) *contact.Message {
	return &contact.Message{
		ID:          row.ID,
		Reference:   row.Reference,
		FullName:    row.FullName,
		Email:       row.Email,
		PhoneNumber: row.PhoneNumber,
		Subject:     row.Subject,
		Body:        row.Message,
		Status:      contact.Status(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
