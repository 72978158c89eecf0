package routes

import (
	"context"
	"estate-brokerage/internal/config"
	"estate-brokerage/internal/delivery/http/handler"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/middleware"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	healthTimeout = 3 * time.Second

	// formOverhead covers multipart boundaries and text fields around uploads.
	formOverhead = 1 << 20
)

// HealthChecker reports whether the user directory is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies are the services and stores the routes are built from.
type Dependencies struct {
	Auth       handler.AuthService
	Profiles   handler.ProfileService
	Properties handler.PropertyService
	Catalog    handler.CatalogService
	Contacts   handler.ContactService
	Directory  middleware.RoleLookup
	Health     HealthChecker
}

// bodyLimits lets upload routes through at their size and caps the rest at
// formOverhead.
func bodyLimits(storage *config.StorageConfig) middleware.BodyLimits {
	listing := int64(storage.MaxPropertyImages)*storage.MaxImageBytes + formOverhead

	return middleware.BodyLimits{
		Default: formOverhead,
		Routes: map[string]int64{
			"/api/auth/signup":    storage.MaxImageBytes + formOverhead,
			"/api/properties":     listing,
			"/api/properties/:id": listing,
		},
	}
}

// SetupRoutes builds the engine. Background work started for the routes,
// such as rate limiter sweeping, stops with ctx.
func SetupRoutes(ctx context.Context, cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, metrics, security headers, CORS, body limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.Server.Environment))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.BodyLimitMiddleware(bodyLimits(&cfg.Storage)))
	router.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		healthCtx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := deps.Health.Ping(healthCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handler.NewAuthHandler(deps.Auth, cfg.Storage.MaxImageBytes)
	userHandler := handler.NewUserHandler(deps.Profiles)
	propertyHandler := handler.NewPropertyHandler(deps.Properties, cfg.Storage.MaxImageBytes)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	contactHandler := handler.NewContactHandler(deps.Contacts)

	authenticated := middleware.AuthMiddleware(&cfg.JWT)
	adminOnly := middleware.AdminOnly(deps.Directory)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst))
		{
			authHandler.RegisterRoutes(auth)

			protected := auth.Group("")
			protected.Use(authenticated)
			{
				authHandler.RegisterProtectedRoutes(protected)
				userHandler.RegisterProfileRoutes(protected)
			}
		}

		pictures := api.Group("/auth")
		{
			userHandler.RegisterRoutes(pictures)
		}

		admin := api.Group("/admin")
		admin.Use(authenticated, adminOnly)
		{
			userHandler.RegisterAdminRoutes(admin)
		}

		public := api.Group("")
		{
			propertyHandler.RegisterRoutes(public)
			catalogHandler.RegisterRoutes(public)
			contactHandler.RegisterRoutes(public)
		}

		visitors := api.Group("")
		visitors.Use(middleware.OptionalAuthMiddleware(&cfg.JWT))
		{
			propertyHandler.RegisterInquiryRoutes(visitors)
		}

		members := api.Group("")
		members.Use(authenticated)
		{
			catalogHandler.RegisterProtectedRoutes(members)
		}

		staff := api.Group("")
		staff.Use(authenticated, adminOnly)
		{
			propertyHandler.RegisterAdminRoutes(staff)
			catalogHandler.RegisterAdminRoutes(staff)
			contactHandler.RegisterAdminRoutes(staff)
		}
	}

	logger.Info("All routes initialized")
	return router
}
