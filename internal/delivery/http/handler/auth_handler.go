package handler

import (
	"context"
	"errors"
	"estate-brokerage/internal/middleware"
	"estate-brokerage/internal/usecase/user"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const profilePictureField = "profilePicture"

// AuthService is the credential and session surface the handlers drive.
type AuthService interface {
	Register(ctx context.Context, req *user.RegisterRequest, image *utils.Image) (*user.RegisterResponse, error)
	VerifyOTP(ctx context.Context, req *user.VerifyOTPRequest) error
	VerifyEmailToken(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, req *user.ResendVerificationRequest) error
	Signin(ctx context.Context, req *user.SigninRequest) (*user.SigninResponse, error)
	FederatedSignin(ctx context.Context, req *user.FederatedSigninRequest) (*user.FederatedSigninResponse, error)
	RefreshAccessToken(ctx context.Context, req *user.RefreshTokenRequest) (*user.RefreshTokenResponse, error)
	Signout(ctx context.Context, userID uuid.UUID, req *user.SignoutRequest) error
	ForgotPassword(ctx context.Context, req *user.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error
}

type AuthHandler struct {
	service       AuthService
	maxImageBytes int64
}

func NewAuthHandler(service AuthService, maxImageBytes int64) *AuthHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = utils.MaxImageBytes
	}
	return &AuthHandler{service: service, maxImageBytes: maxImageBytes}
}

// RegisterRoutes mounts the unauthenticated credential routes.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/signup", h.Signup)
	router.POST("/verify-otp", h.VerifyOTP)
	router.GET("/verify-email/:token", h.VerifyEmail)
	router.POST("/resend-verification", h.ResendVerification)
	router.POST("/signin", h.Signin)
	router.POST("/google-auth", h.GoogleAuth)
	router.POST("/refresh-token", h.RefreshToken)
	router.POST("/forgot-password", h.ForgotPassword)
	router.POST("/reset-password", h.ResetPassword)
}

// RegisterProtectedRoutes mounts routes that need an access token.
func (h *AuthHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/signout", h.Signout)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req user.RegisterRequest

	if err := c.ShouldBind(&req); err != nil {
		invalidBody(c)
		return
	}

	image, err := h.profilePicture(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response, err := h.service.Register(c.Request.Context(), &req, image)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, response)
}

// profilePicture reads the optional upload and checks its content. JSON
// signups carry no picture.
func (h *AuthHandler) profilePicture(c *gin.Context) (*utils.Image, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}

	header, err := c.FormFile(profilePictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.ErrInvalidImage
	}
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

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req user.VerifyOTPRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.service.VerifyOTP(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "OTP verified successfully, user is now verified.")
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.service.VerifyEmailToken(c.Request.Context(), c.Param("token")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Email verified successfully")
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req user.ResendVerificationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.service.ResendVerification(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Verification sent, please check your email")
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req user.SigninRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	response, err := h.service.Signin(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, response)
}

func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req user.FederatedSigninRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid token")
		return
	}

	response, err := h.service.FederatedSignin(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token required")
		return
	}

	response, err := h.service.RefreshAccessToken(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, response)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req user.ForgotPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Password reset code sent to your email")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Password reset successfully")
}

func (h *AuthHandler) Signout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.SignoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token required")
		return
	}

	if err := h.service.Signout(c.Request.Context(), userID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Signed out successfully")
}
