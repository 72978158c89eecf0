package mongodb

import (
	"context"
	"estate-brokerage/internal/config"
	"estate-brokerage/internal/logger"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	usersCollection      = "users"
	propertiesCollection = "properties"
	inquiriesCollection  = "property_forms"
	offeringsCollection  = "services"
	bookingsCollection   = "service_bookings"
	contactsCollection   = "contacts"

	emailIndex    = "uniq_email"
	usernameIndex = "uniq_username"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.Database.MongoURI).
		SetMaxPoolSize(25).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("error opening mongodb client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error connecting to mongodb: %w", err)
	}

	db := &DB{
		client:   client,
		database: client.Database(cfg.Database.MongoDatabase),
	}

	if err := db.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Database connection established",
		zap.String("driver", "mongo"),
		zap.String("database", cfg.Database.MongoDatabase),
		zap.Int("max_pool_size", 25),
	)

	return db, nil
}

// ensureIndexes creates the unique indexes that arbitrate concurrent signups
// and generated references, plus lookup indexes for token and filter fields.
func (d *DB) ensureIndexes(ctx context.Context) error {
	for collection, indexes := range collectionIndexes() {
		if _, err := d.database.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("error creating %s indexes: %w", collection, err)
		}
	}
	return nil
}

func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(emailIndex),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(usernameIndex),
			},
			{
				Keys:    bson.D{{Key: "refreshToken", Value: 1}},
				Options: options.Index().SetSparse(true).SetName("idx_refresh_token"),
			},
			{
				Keys:    bson.D{{Key: "verification.secret", Value: 1}},
				Options: options.Index().SetSparse(true).SetName("idx_verification_secret"),
			},
		},
		propertiesCollection: {
			{
				Keys:    bson.D{{Key: "location.city", Value: 1}, {Key: "price.amount", Value: 1}},
				Options: options.Index().SetName("idx_city_price"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_created_at"),
			},
		},
		inquiriesCollection: {
			{
				Keys:    bson.D{{Key: "propertyId", Value: 1}},
				Options: options.Index().SetName("idx_property_id"),
			},
		},
		offeringsCollection: {
			{
				Keys:    bson.D{{Key: "category", Value: 1}},
				Options: options.Index().SetName("idx_category"),
			},
		},
		bookingsCollection: {
			{
				Keys:    bson.D{{Key: "service_booking_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_service_booking_id"),
			},
			{
				Keys:    bson.D{{Key: "preferred_date", Value: -1}},
				Options: options.Index().SetName("idx_preferred_date"),
			},
		},
		contactsCollection: {
			{
				Keys:    bson.D{{Key: "contact_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_contact_id"),
			},
		},
	}
}

func (d *DB) users() *mongo.Collection {
	return d.database.Collection(usersCollection)
}

func (d *DB) collection(name string) *mongo.Collection {
	return d.database.Collection(name)
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) Health(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}
