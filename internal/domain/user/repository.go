package user

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository is the User Directory. Conditional operations return ErrNoMatch
// when the identity exists but is not in the expected state.
type Repository interface {
	// Create fails with ErrEmailTaken or ErrUsernameTaken on a unique index violation.
	Create(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID uuid.UUID) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)

	SetVerification(ctx context.Context, userID uuid.UUID, pending *PendingVerification) error
	ConsumeOTP(ctx context.Context, email, code string, now time.Time) (*User, error)
	ConsumeVerificationToken(ctx context.Context, tokenHash string) (*User, error)
	// ClaimFederated verifies a pending identity on behalf of the provider,
	// replacing its password and dropping any session and reset code.
	// It returns ErrNoMatch when the identity is already verified.
	ClaimFederated(ctx context.Context, userID uuid.UUID, passwordHash string) (*User, error)

	SetRefreshToken(ctx context.Context, userID uuid.UUID, hash string) error
	SwapRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string) error
	ClearRefreshToken(ctx context.Context, userID uuid.UUID, hash string) error

	SetResetCode(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, email, code string, now time.Time, passwordHash string) (*User, error)

	ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error)
	Ping(ctx context.Context) error
}

// Notifier delivers verification and reset artifacts to the identity's email.
type Notifier interface {
	SendVerificationOTP(ctx context.Context, to, name, code string, ttl time.Duration) error
	SendVerificationLink(ctx context.Context, to, name, link string) error
	SendPasswordResetCode(ctx context.Context, to, name, code string, ttl time.Duration) error
}

// IdentityProvider verifies a third-party token and returns the trusted profile.
type IdentityProvider interface {
	Verify(ctx context.Context, token string) (*FederatedProfile, error)
}

// ImageStore persists profile pictures under generated names.
type ImageStore interface {
	Save(ctx context.Context, data []byte, contentType, extension string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}

// EventPublisher fans out identity lifecycle events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}
