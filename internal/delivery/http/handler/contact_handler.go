package handler

import (
	"context"
	"estate-brokerage/internal/usecase/contact"
	"estate-brokerage/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContactService is the contact form surface.
type ContactService interface {
	Submit(ctx context.Context, req *contact.MessageRequest) (*contact.MessageResponse, error)
	List(ctx context.Context, q *contact.ListQuery) ([]*contact.MessageResponse, error)
	Get(ctx context.Context, reference string) (*contact.MessageResponse, error)
	UpdateStatus(ctx context.Context, reference string, req *contact.StatusRequest) (*contact.MessageResponse, error)
	Delete(ctx context.Context, reference string) error
}

type ContactHandler struct {
	service ContactService
}

func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/contacts", h.Submit)
}

func (h *ContactHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/contacts", h.List)
	router.GET("/contacts/:reference", h.Get)
	router.PATCH("/contacts/:reference/status", h.UpdateStatus)
	router.DELETE("/contacts/:reference", h.Delete)
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req contact.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	message, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Contact form submitted successfully",
		"contact": message,
	})
}

func (h *ContactHandler) List(c *gin.Context) {
	var q contact.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	messages, err := h.service.List(c.Request.Context(), &q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"contacts": messages})
}

func (h *ContactHandler) Get(c *gin.Context) {
	message, err := h.service.Get(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"contact": message})
}

func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req contact.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	message, err := h.service.UpdateStatus(c.Request.Context(), c.Param("reference"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Contact status updated",
		"contact": message,
	})
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("reference")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Contact deleted successfully")
}
