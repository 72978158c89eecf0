package mongodb

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/contact"
	"estate-brokerage/internal/infrastructure/database/mongodb/models"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ContactRepository implements contact.Repository on a MongoDB collection
type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) contact.Repository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) contacts() *mongo.Collection {
	return r.db.collection(contactsCollection)
}

func (r *ContactRepository) Create(ctx context.Context, m *contact.Message) error {
	if _, err := r.contacts().InsertOne(ctx, toContactDocument(m)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return contact.ErrReferenceTaken
		}
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetByReference(ctx context.Context, reference string) (*contact.Message, error) {
	var doc models.ContactMessageDocument
	err := r.contacts().FindOne(ctx, bson.M{"contact_id": reference}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, contact.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return toContactEntity(&doc), nil
}

func contactFilter(f contact.Filter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Email != "" {
		filter["email"] = f.Email
	}
	if f.Date != nil {
		filter["created_at"] = dayRange(f.Date.UTC())
	}
	return filter
}

func (r *ContactRepository) List(ctx context.Context, f contact.Filter) ([]*contact.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.contacts().Find(ctx, contactFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}

	var docs []models.ContactMessageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode contact messages: %w", err)
	}

	messages := make([]*contact.Message, len(docs))
	for i := range docs {
		messages[i] = toContactEntity(&docs[i])
	}
	return messages, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, reference string, status contact.Status) (*contact.Message, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.ContactMessageDocument
	err := r.contacts().FindOneAndUpdate(ctx,
		bson.M{"contact_id": reference},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now()}},
		opts,
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, contact.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}
	return toContactEntity(&doc), nil
}

func (r *ContactRepository) Delete(ctx context.Context, reference string) error {
	result, err := r.contacts().DeleteOne(ctx, bson.M{"contact_id": reference})
	if err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	if result.DeletedCount == 0 {
		return contact.ErrMessageNotFound
	}
	return nil
}

func toContactDocument(m *contact.Message) *models.ContactMessageDocument {
	return &models.ContactMessageDocument{
		ID:          m.ID.String(),
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

func toContactEntity(doc *models.ContactMessageDocument) *contact.Message {
	id, _ := uuid.Parse(doc.ID)
	return &contact.Message{
		ID:          id,
		Reference:   doc.Reference,
		FullName:    doc.FullName,
		Email:       doc.Email,
		PhoneNumber: doc.PhoneNumber,
		Subject:     doc.Subject,
		Body:        doc.Message,
		Status:      contact.Status(doc.Status),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
