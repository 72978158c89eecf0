package user

import (
	domainUser "estate-brokerage/internal/domain/user"
	"time"

	"github.com/google/uuid"
)

// RegisterRequest binds both JSON and multipart signup bodies.
type RegisterRequest struct {
	FullName    string `json:"fullName" form:"fullName" validate:"required,min=2,max=255"`
	Username    string `json:"username" form:"username" validate:"required,username"`
	Email       string `json:"email" form:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"required,phone"`
	Nationality string `json:"nationality" form:"nationality" validate:"required,min=2,max=100"`
	Password    string `json:"password" form:"password" validate:"required,max=72"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SigninRequest accepts either an email or a username as identifier.
type SigninRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required,max=72"`
}

type FederatedSigninRequest struct {
	Token string `json:"token" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type SignoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

// UserResponse is the public profile. It never carries secrets.
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"fullName"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	Nationality    string    `json:"nationality"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Role           string    `json:"role"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
}

type RegisterResponse struct {
	Message      string        `json:"message"`
	User         *UserResponse `json:"user"`
	Token        string        `json:"token,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
}

type SigninResponse struct {
	Message      string        `json:"message"`
	Token        string        `json:"token"`
	RefreshToken string        `json:"refreshToken"`
	User         *UserResponse `json:"user"`
}

type FederatedSigninResponse struct {
	Message      string        `json:"message"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         *UserResponse `json:"user"`
}

type RefreshTokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Username:       u.Username,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		Nationality:    u.Nationality,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt,
	}
}
