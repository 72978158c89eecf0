package identity

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/user"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var (
	ErrMissingEmail     = errors.New("provider token carries no email")
	ErrEmailNotVerified = errors.New("provider has not verified the email")
)

// payloadValidator is satisfied by *idtoken.Validator.
type payloadValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier checks Google ID tokens against the configured client id
type GoogleVerifier struct {
	validator payloadValidator
	clientID  string
}

func NewGoogleVerifier(ctx context.Context, clientID string, timeout time.Duration) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to create google token validator: %w", err)
	}

	return &GoogleVerifier{validator: validator, clientID: clientID}, nil
}

var _ user.IdentityProvider = (*GoogleVerifier)(nil)

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*user.FederatedProfile, error) {
	payload, err := v.validator.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate google token: %w", err)
	}

	return profileFromClaims(payload.Claims)
}

func profileFromClaims(claims map[string]interface{}) (*user.FederatedProfile, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrMissingEmail
	}

	switch verified := claims["email_verified"].(type) {
	case bool:
		if !verified {
			return nil, ErrEmailNotVerified
		}
	case string:
		if verified != "true" {
			return nil, ErrEmailNotVerified
		}
	}

	name, _ := claims["name"].(string)
	return &user.FederatedProfile{Name: name, Email: email}, nil
}
