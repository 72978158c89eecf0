package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// VerificationKind names the artifact a pending identity must present.
type VerificationKind string

const (
	VerificationOTP        VerificationKind = "otp"
	VerificationEmailToken VerificationKind = "email_token"
)

// PendingVerification is set while an identity waits for signup verification.
// Secret is the OTP itself or the SHA-256 of the emailed token.
type PendingVerification struct {
	Kind      VerificationKind
	Secret    string
	ExpiresAt *time.Time
}

// User represents an identity in the domain
type User struct {
	ID               uuid.UUID
	FullName         string
	Username         string
	Email            string
	PhoneNumber      string
	Nationality      string
	PasswordHashed   string
	ProfilePicture   string
	Role             string
	IsVerified       bool
	Verification     *PendingVerification
	ResetCode        string
	ResetExpiresAt   *time.Time
	RefreshTokenHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PendingOTP reports whether code is the live OTP for u at now.
func (u *User) PendingOTP(code string, now time.Time) bool {
	v := u.Verification
	if u.IsVerified || v == nil || v.Kind != VerificationOTP || v.ExpiresAt == nil {
		return false
	}
	return v.Secret == code && now.Before(*v.ExpiresAt)
}

// ResetCodeValid reports whether code is the live reset code for u at now.
func (u *User) ResetCodeValid(code string, now time.Time) bool {
	if u.ResetCode == "" || u.ResetExpiresAt == nil {
		return false
	}
	return u.ResetCode == code && now.Before(*u.ResetExpiresAt)
}

// FederatedProfile is the trusted subset of a provider identity.
type FederatedProfile struct {
	Name  string
	Email string
}

// Event is a lifecycle notification about an identity.
type Event struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"userId"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	EventRegistered      = "registered"
	EventVerified        = "verified"
	EventSignedIn        = "signed_in"
	EventSignedOut       = "signed_out"
	EventPasswordReset   = "password_reset"
	EventFederatedSignup = "federated_signup"
)
