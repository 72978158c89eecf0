package handler

import (
	"context"
	"estate-brokerage/internal/usecase/user"
	"estate-brokerage/pkg/utils"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileService reads identities and their pictures.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserResponse, error)
	ListUsers(ctx context.Context) (*user.UserListResponse, error)
	OpenProfilePicture(ctx context.Context, name string) (io.ReadCloser, string, error)
}

type UserHandler struct {
	service ProfileService
}

func NewUserHandler(service ProfileService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts the public picture route.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile-picture/:filename", h.ProfilePicture)
}

func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	router.GET("/me", h.Me)
}

func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"user": profile})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, users)
}

func (h *UserHandler) ProfilePicture(c *gin.Context) {
	body, contentType, err := h.service.OpenProfilePicture(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer body.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}
