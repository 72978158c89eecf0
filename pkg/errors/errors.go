package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrEmailNotVerified        = errors.New("email address is not verified")
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")
	ErrInvalidAccessToken      = errors.New("invalid or expired token")
	ErrInvalidProviderToken    = errors.New("invalid provider token")
	ErrUnauthorized            = errors.New("unauthorized access")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrUsernameExists  = errors.New("username already exists")
	ErrAlreadyVerified = errors.New("user is already verified")

	ErrInvalidOTP               = errors.New("invalid or expired otp")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrInvalidResetCode         = errors.New("invalid or expired reset code")

	ErrInvalidImage  = errors.New("uploaded file is not a supported image")
	ErrImageTooLarge = errors.New("uploaded image is too large")
	ErrImageNotFound = errors.New("image not found")
	ErrTooManyImages = errors.New("too many images")

	ErrPropertyNotFound      = errors.New("property not found")
	ErrInquiryNotFound       = errors.New("property form not found")
	ErrServiceNotFound       = errors.New("service not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")
	ErrContactNotFound       = errors.New("contact not found")
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeWeakPassword = "WEAK_PASSWORD"
)

// AppError carries a client-safe message plus optional per-field details.
type AppError struct {
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewValidationError(fields map[string]string, err error) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Invalid input",
		Fields:  fields,
		Err:     err,
	}
}
