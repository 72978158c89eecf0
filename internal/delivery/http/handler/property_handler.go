package handler

import (
	"context"
	"estate-brokerage/internal/middleware"
	"estate-brokerage/internal/usecase/property"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const propertyImagesField = "images"

// PropertyService is the listing surface the handlers drive.
type PropertyService interface {
	MaxImages() int
	List(ctx context.Context, q *property.ListQuery) (*property.PropertyPage, error)
	Get(ctx context.Context, id uuid.UUID) (*property.PropertyResponse, error)
	Create(ctx context.Context, adminID uuid.UUID, req *property.PropertyRequest, images []*utils.Image) (*property.PropertyResponse, error)
	Update(ctx context.Context, adminID, id uuid.UUID, req *property.PropertyRequest, images []*utils.Image) (*property.PropertyResponse, error)
	Delete(ctx context.Context, adminID, id uuid.UUID) error
	SetDiscount(ctx context.Context, adminID, id uuid.UUID, req *property.DiscountRequest) error
	OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error)

	CreateInquiry(ctx context.Context, req *property.InquiryRequest, userID *uuid.UUID) (*property.InquiryCreatedResponse, error)
	ListInquiries(ctx context.Context, q *property.InquiryListQuery) ([]*property.InquiryResponse, error)
	GetInquiry(ctx context.Context, id uuid.UUID) (*property.InquiryResponse, error)
	UpdateInquiryStatus(ctx context.Context, id uuid.UUID, req *property.InquiryStatusRequest) (*property.InquiryResponse, error)
	DeleteInquiry(ctx context.Context, id uuid.UUID) error
}

type PropertyHandler struct {
	service       PropertyService
	maxImageBytes int64
}

func NewPropertyHandler(service PropertyService, maxImageBytes int64) *PropertyHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = utils.MaxImageBytes
	}
	return &PropertyHandler{service: service, maxImageBytes: maxImageBytes}
}

// RegisterRoutes mounts the public listing routes.
func (h *PropertyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/properties", h.List)
	router.GET("/properties/:id", h.Get)
	router.GET("/property-images/:filename", h.Image)
}

// RegisterInquiryRoutes mounts inquiry submission. Callers may be anonymous.
func (h *PropertyHandler) RegisterInquiryRoutes(router *gin.RouterGroup) {
	router.POST("/property-forms", h.CreateInquiry)
}

func (h *PropertyHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/properties", h.Create)
	router.PUT("/properties/:id", h.Update)
	router.DELETE("/properties/:id", h.Delete)
	router.POST("/properties/:id/discount", h.SetDiscount)

	router.GET("/property-forms", h.ListInquiries)
	router.GET("/property-forms/:id", h.GetInquiry)
	router.PATCH("/property-forms/:id", h.UpdateInquiryStatus)
	router.DELETE("/property-forms/:id", h.DeleteInquiry)
}

func (h *PropertyHandler) List(c *gin.Context) {
	var q property.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.service.List(c.Request.Context(), &q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, page)
}

func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrPropertyNotFound)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"property": p})
}

func (h *PropertyHandler) Image(c *gin.Context) {
	body, contentType, err := h.service.OpenImage(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer body.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}

func (h *PropertyHandler) Create(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}

	var req property.PropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidBody(c)
		return
	}

	images, err := h.uploadedImages(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), adminID, &req, images)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, gin.H{
		"message":  "Property created successfully",
		"property": p,
	})
}

func (h *PropertyHandler) Update(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", appErrors.ErrPropertyNotFound)
	if !ok {
		return
	}

	var req property.PropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidBody(c)
		return
	}

	images, err := h.uploadedImages(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), adminID, id, &req, images)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message":  "Property updated successfully",
		"property": p,
	})
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", appErrors.ErrPropertyNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), adminID, id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Property deleted successfully")
}

func (h *PropertyHandler) SetDiscount(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", appErrors.ErrPropertyNotFound)
	if !ok {
		return
	}

	var req property.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.service.SetDiscount(c.Request.Context(), adminID, id, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Discount set successfully")
}

// uploadedImages reads the listing photos of a multipart body. JSON bodies
// carry none. Every file is checked by content, not by its declared type.
func (h *PropertyHandler) uploadedImages(c *gin.Context) ([]*utils.Image, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, appErrors.ErrInvalidImage
	}

	headers := form.File[propertyImagesField]
	if len(headers) > h.service.MaxImages() {
		return nil, appErrors.ErrTooManyImages
	}

	images := make([]*utils.Image, 0, len(headers))
	for _, header := range headers {
		image, err := h.readImage(header)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, nil
}

func (h *PropertyHandler) readImage(header *multipart.FileHeader) (*utils.Image, error) {
	if header.Size > h.maxImageBytes {
		return nil, appErrors.ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return utils.DetectImage(data, h.maxImageBytes)
}

func (h *PropertyHandler) CreateInquiry(c *gin.Context) {
	var req property.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	created, err := h.service.CreateInquiry(c.Request.Context(), &req, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, created)
}

func (h *PropertyHandler) ListInquiries(c *gin.Context) {
	var q property.InquiryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	inquiries, err := h.service.ListInquiries(c.Request.Context(), &q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"propertyForms": inquiries})
}

func (h *PropertyHandler) GetInquiry(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrInquiryNotFound)
	if !ok {
		return
	}

	inquiry, err := h.service.GetInquiry(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"propertyForm": inquiry})
}

func (h *PropertyHandler) UpdateInquiryStatus(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrInquiryNotFound)
	if !ok {
		return
	}

	var req property.InquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	inquiry, err := h.service.UpdateInquiryStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message":      "Property form status updated",
		"propertyForm": inquiry,
	})
}

func (h *PropertyHandler) DeleteInquiry(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrInquiryNotFound)
	if !ok {
		return
	}

	if err := h.service.DeleteInquiry(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Property form deleted successfully")
}
