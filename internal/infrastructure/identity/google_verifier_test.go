package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idToken, audience)
	if payload := args.Get(0); payload != nil {
		return payload.(*idtoken.Payload), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGoogleVerifier(t *testing.T) {
	validator := &mockValidator{}
	verifier := &GoogleVerifier{validator: validator, clientID: "client-id"}

	validator.On("Validate", mock.Anything, "good", "client-id").Return(&idtoken.Payload{
		Audience: "client-id",
		Claims: map[string]interface{}{
			"email":          "grace@example.com",
			"email_verified": true,
			"name":           "Grace Hopper",
		},
	}, nil)
	validator.On("Validate", mock.Anything, "bad", "client-id").Return(nil, errors.New("idtoken: audience provided does not match"))

	profile, err := verifier.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", profile.Email)
	assert.Equal(t, "Grace Hopper", profile.Name)

	_, err = verifier.Verify(context.Background(), "bad")
	assert.Error(t, err)

	validator.AssertExpectations(t)
}

func TestProfileFromClaims(t *testing.T) {
	_, err := profileFromClaims(map[string]interface{}{"name": "No Email"})
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = profileFromClaims(map[string]interface{}{"email": "a@x.com", "email_verified": false})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	_, err = profileFromClaims(map[string]interface{}{"email": "a@x.com", "email_verified": "false"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	profile, err := profileFromClaims(map[string]interface{}{"email": "a@x.com"})
	require.NoError(t, err)
	assert.Empty(t, profile.Name)
}
