package handler

import (
	"errors"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/middleware"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondWithError maps service errors to status codes and client-safe bodies.
// Anything unrecognised is logged and reported as a 500.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	switch {
	case errors.As(err, &appErr):
		utils.ValidationErrorResponse(c, http.StatusBadRequest, appErr.Message, appErr.Fields)

	case errors.Is(err, appErrors.ErrEmailExists):
		utils.ErrorResponse(c, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, appErrors.ErrUsernameExists):
		utils.ErrorResponse(c, http.StatusBadRequest, "Username already exists")

	case errors.Is(err, appErrors.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, appErrors.ErrEmailNotVerified):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Please verify your email first")
	case errors.Is(err, appErrors.ErrInvalidRefreshToken):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, appErrors.ErrInvalidAccessToken),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, appErrors.ErrInvalidProviderToken):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")

	case errors.Is(err, appErrors.ErrInvalidOTP):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, appErrors.ErrInvalidVerificationToken):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid or expired verification link")
	case errors.Is(err, appErrors.ErrInvalidResetCode):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid or expired reset code")
	case errors.Is(err, appErrors.ErrAlreadyVerified):
		utils.ErrorResponse(c, http.StatusBadRequest, "User is already verified")

	case errors.Is(err, appErrors.ErrInvalidImage):
		utils.ErrorResponse(c, http.StatusBadRequest, "Images must be JPEG, PNG, GIF or WebP files")
	case errors.Is(err, appErrors.ErrImageTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Image is too large")
	case errors.Is(err, appErrors.ErrTooManyImages):
		utils.ErrorResponse(c, http.StatusBadRequest, "Too many images")
	case errors.Is(err, appErrors.ErrBookingNotCancellable):
		utils.ErrorResponse(c, http.StatusConflict, "Booking cannot be cancelled")

	case errors.Is(err, appErrors.ErrUserNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "User not found")
	case errors.Is(err, appErrors.ErrImageNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Image not found")
	case errors.Is(err, appErrors.ErrPropertyNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Property not found")
	case errors.Is(err, appErrors.ErrInquiryNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Property form not found")
	case errors.Is(err, appErrors.ErrServiceNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Service not found")
	case errors.Is(err, appErrors.ErrBookingNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, appErrors.ErrContactNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Contact not found")

	default:
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

func invalidBody(c *gin.Context) {
	utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
}

// pathID parses a uuid path parameter. Malformed ids cannot name a record,
// so they are answered with notFound.
func pathID(c *gin.Context, param string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondWithError(c, notFound)
		return uuid.Nil, false
	}
	return id, true
}

// callerID returns the authenticated caller or answers 401.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
	}
	return userID, ok
}
