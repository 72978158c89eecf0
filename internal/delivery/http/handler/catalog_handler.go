package handler

import (
	"context"
	"estate-brokerage/internal/usecase/catalog"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogService is the service catalog and booking surface.
type CatalogService interface {
	ListOfferings(ctx context.Context, q *catalog.OfferingListQuery) ([]*catalog.OfferingResponse, error)
	GetOffering(ctx context.Context, id uuid.UUID) (*catalog.OfferingResponse, error)
	CreateOffering(ctx context.Context, req *catalog.OfferingRequest) (*catalog.OfferingResponse, error)
	UpdateOffering(ctx context.Context, id uuid.UUID, req *catalog.OfferingRequest) (*catalog.OfferingResponse, error)
	DeleteOffering(ctx context.Context, id uuid.UUID) error
	ToggleAvailability(ctx context.Context, id uuid.UUID) (*catalog.OfferingResponse, error)

	CreateBooking(ctx context.Context, req *catalog.BookingRequest) (*catalog.BookingResponse, error)
	ListBookings(ctx context.Context, q *catalog.BookingListQuery) ([]*catalog.BookingResponse, error)
	GetBooking(ctx context.Context, reference string) (*catalog.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, reference string, req *catalog.BookingStatusRequest) (*catalog.BookingResponse, error)
	CancelBooking(ctx context.Context, reference string) (*catalog.BookingResponse, error)
}

type CatalogHandler struct {
	service CatalogService
}

func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes mounts the public catalog and booking submission.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/services", h.ListOfferings)
	router.GET("/services/:id", h.GetOffering)
	router.POST("/service-bookings", h.CreateBooking)
}

// RegisterProtectedRoutes mounts booking lookups for signed in callers.
func (h *CatalogHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/service-bookings/:reference", h.GetBooking)
	router.PATCH("/service-bookings/:reference/cancel", h.CancelBooking)
}

func (h *CatalogHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/services", h.CreateOffering)
	router.PUT("/services/:id", h.UpdateOffering)
	router.DELETE("/services/:id", h.DeleteOffering)
	router.PATCH("/services/:id/availability", h.ToggleAvailability)

	router.GET("/service-bookings", h.ListBookings)
	router.PATCH("/service-bookings/:reference/status", h.UpdateBookingStatus)
}

func (h *CatalogHandler) ListOfferings(c *gin.Context) {
	var q catalog.OfferingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	offerings, err := h.service.ListOfferings(c.Request.Context(), &q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"services": offerings})
}

func (h *CatalogHandler) GetOffering(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrServiceNotFound)
	if !ok {
		return
	}

	offering, err := h.service.GetOffering(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"service": offering})
}

func (h *CatalogHandler) CreateOffering(c *gin.Context) {
	var req catalog.OfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	offering, err := h.service.CreateOffering(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Service created successfully",
		"service": offering,
	})
}

func (h *CatalogHandler) UpdateOffering(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrServiceNotFound)
	if !ok {
		return
	}

	var req catalog.OfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	offering, err := h.service.UpdateOffering(c.Request.Context(), id, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Service updated successfully",
		"service": offering,
	})
}

func (h *CatalogHandler) DeleteOffering(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrServiceNotFound)
	if !ok {
		return
	}

	if err := h.service.DeleteOffering(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Service deleted successfully")
}

func (h *CatalogHandler) ToggleAvailability(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrServiceNotFound)
	if !ok {
		return
	}

	offering, err := h.service.ToggleAvailability(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"service": offering})
}

func (h *CatalogHandler) CreateBooking(c *gin.Context) {
	var req catalog.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Service booked successfully",
		"booking": booking,
	})
}

func (h *CatalogHandler) ListBookings(c *gin.Context) {
	var q catalog.BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), &q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *CatalogHandler) GetBooking(c *gin.Context) {
	booking, err := h.service.GetBooking(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"booking": booking})
}

func (h *CatalogHandler) UpdateBookingStatus(c *gin.Context) {
	var req catalog.BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	booking, err := h.service.UpdateBookingStatus(c.Request.Context(), c.Param("reference"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Booking status updated",
		"booking": booking,
	})
}

func (h *CatalogHandler) CancelBooking(c *gin.Context) {
	booking, err := h.service.CancelBooking(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
		"booking": booking,
	})
}
