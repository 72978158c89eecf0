package main

import (
	"context"
	"errors"
	"estate-brokerage/internal/config"
	"estate-brokerage/internal/domain/catalog"
	"estate-brokerage/internal/domain/contact"
	"estate-brokerage/internal/domain/property"
	"estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/events"
	"estate-brokerage/internal/infrastructure/database/mongodb"
	"estate-brokerage/internal/infrastructure/database/postgres"
	"estate-brokerage/internal/infrastructure/email"
	"estate-brokerage/internal/infrastructure/identity"
	"estate-brokerage/internal/infrastructure/storage"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/routes"
	catalogUsecase "estate-brokerage/internal/usecase/catalog"
	contactUsecase "estate-brokerage/internal/usecase/contact"
	propertyUsecase "estate-brokerage/internal/usecase/property"
	userUsecase "estate-brokerage/internal/usecase/user"
	"estate-brokerage/pkg/mqtt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env, cfg.Server.LogLevel); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("verification_mode", string(cfg.Auth.VerificationMode)),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeDB, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer closeDB()

	pictures, listingImages, err := openImageStores(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	notifier, err := email.NewNotifier(&cfg.SMTP, cfg.Auth.OutboundTimeout())
	if err != nil {
		logger.Fatal("Failed to initialize mail client", zap.Error(err))
	}

	provider, err := identity.NewGoogleVerifier(ctx, cfg.Google.ClientID, cfg.Auth.OutboundTimeout())
	if err != nil {
		logger.Fatal("Failed to initialize Google token verifier", zap.Error(err))
	}

	publisher, closeEvents := openPublisher(cfg)
	defer closeEvents()

	userService := userUsecase.NewService(repos.users, notifier, provider, pictures, publisher, cfg)
	go userService.StartCodeCleanupJob(ctx, cfg.Auth.CleanupInterval())

	propertyService := propertyUsecase.NewService(repos.properties, repos.inquiries, listingImages, cfg.Storage.MaxPropertyImages)
	catalogService := catalogUsecase.NewService(repos.offerings, repos.bookings)
	contactService := contactUsecase.NewService(repos.contacts)

	router := routes.SetupRoutes(ctx, cfg, routes.Dependencies{
		Auth:       userService,
		Profiles:   userService,
		Properties: propertyService,
		Catalog:    catalogService,
		Contacts:   contactService,
		Directory:  repos.users,
		Health:     repos.users,
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := net.JoinHostPort(host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

// repositories holds one store per aggregate, all on the configured driver.
type repositories struct {
	users      user.Repository
	properties property.Repository
	inquiries  property.InquiryRepository
	offerings  catalog.OfferingRepository
	bookings   catalog.BookingRepository
	contacts   contact.Repository
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DatabaseDriverPostgres:
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}
		return &repositories{
			users:      postgres.NewUserRepository(db),
			properties: postgres.NewPropertyRepository(db),
			inquiries:  postgres.NewInquiryRepository(db),
			offerings:  postgres.NewOfferingRepository(db),
			bookings:   postgres.NewBookingRepository(db),
			contacts:   postgres.NewContactRepository(db),
		}, closeFn, nil

	default:
		db, err := mongodb.NewDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}
		return &repositories{
			users:      mongodb.NewUserRepository(db),
			properties: mongodb.NewPropertyRepository(db),
			inquiries:  mongodb.NewInquiryRepository(db),
			offerings:  mongodb.NewOfferingRepository(db),
			bookings:   mongodb.NewBookingRepository(db),
			contacts:   mongodb.NewContactRepository(db),
		}, closeFn, nil
	}
}

// openImageStores returns the profile picture store and the listing photo
// store. They share a bucket under S3 and use separate directories locally.
func openImageStores(ctx context.Context, cfg *config.Config) (user.ImageStore, property.ImageStore, error) {
	if cfg.Storage.Driver == config.StorageDriverS3 {
		pictures, err := storage.NewS3Store(ctx, &cfg.Storage, storage.ProfilePicturePrefix)
		if err != nil {
			return nil, nil, err
		}
		listings, err := storage.NewS3Store(ctx, &cfg.Storage, storage.PropertyImagePrefix)
		if err != nil {
			return nil, nil, err
		}
		return pictures, listings, nil
	}

	pictures, err := storage.NewLocalStore(cfg.Storage.LocalDir)
	if err != nil {
		return nil, nil, err
	}
	listings, err := storage.NewLocalStore(cfg.Storage.PropertyDir)
	if err != nil {
		return nil, nil, err
	}
	return pictures, listings, nil
}

// openPublisher connects to the MQTT broker when one is configured. Events
// are dropped otherwise, and a broker that cannot be reached is not fatal.
func openPublisher(cfg *config.Config) (user.EventPublisher, func()) {
	if cfg.MQTT.Broker == "" {
		logger.Info("MQTT broker not configured, lifecycle events disabled")
		return events.NoopPublisher{}, func() {}
	}

	client := mqtt.NewClient(&mqtt.Config{
		Broker:               cfg.MQTT.Broker,
		ClientID:             cfg.MQTT.ClientID,
		Username:             cfg.MQTT.Username,
		Password:             cfg.MQTT.Password,
		CleanSession:         true,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	})
	if err := client.Connect(); err != nil {
		logger.Warn("MQTT broker unreachable, lifecycle events disabled", zap.Error(err))
		return events.NoopPublisher{}, func() {}
	}

	return events.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix, cfg.Auth.OutboundTimeout()), client.Disconnect
}
