package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}

func TestPasswordPolicy(t *testing.T) {
	var open PasswordPolicy
	assert.NoError(t, open.Validate("pw1"))
	assert.NoError(t, open.Validate("x"))

	strict := PasswordPolicy{MinLength: 8, RequireLetterAndDigit: true}
	assert.NoError(t, strict.Validate("abcdef12"))
	assert.Error(t, strict.Validate("short1"))
	assert.Error(t, strict.Validate("onlyletters"))
	assert.Error(t, strict.Validate("12345678"))

	lengthOnly := PasswordPolicy{MinLength: 4}
	assert.Error(t, lengthOnly.Validate("pw1"))
	assert.NoError(t, lengthOnly.Validate("pass"))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("access-secret")
	id := uuid.New()

	token, err := GenerateToken(id, "admin", TokenTypeAccess, secret, time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, TokenTypeAccess, secret)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejects(t *testing.T) {
	secret := []byte("access-secret")
	id := uuid.New()

	t.Run("wrong type", func(t *testing.T) {
		token, err := GenerateToken(id, "user", TokenTypeRefresh, secret, time.Minute)
		require.NoError(t, err)
		_, err = ValidateToken(token, TokenTypeAccess, secret)
		assert.ErrorIs(t, err, ErrTokenType)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken(id, "user", TokenTypeAccess, secret, time.Minute)
		require.NoError(t, err)
		_, err = ValidateToken(token, TokenTypeAccess, []byte("other"))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateToken(id, "user", TokenTypeAccess, secret, -time.Minute)
		require.NoError(t, err)
		_, err = ValidateToken(token, TokenTypeAccess, secret)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateToken("not-a-token", TokenTypeAccess, secret)
		assert.Error(t, err)
	})
}

func TestTokensAreUnique(t *testing.T) {
	secret := []byte("refresh-secret")
	id := uuid.New()

	a, err := GenerateToken(id, "user", TokenTypeRefresh, secret, time.Hour)
	require.NoError(t, err)
	b, err := GenerateToken(id, "user", TokenTypeRefresh, secret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, HashToken(a), HashToken(b))
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Regexp(t, `^[0-9]{6}$`, code)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "alice@example.com", SanitizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "alice", SanitizeIdentifier(" <b>alice</b> "))
	assert.Equal(t, "+1 (555) 010-2000", SanitizePhone("+1 (555) 010-2000x"))
}

func TestFieldErrors(t *testing.T) {
	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required,username"`
	}

	err := ValidateStruct(&payload{Email: "nope", Username: "a b"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Contains(t, fields, "username")
}

func TestClockValidation(t *testing.T) {
	type payload struct {
		At string `json:"at" validate:"required,clock"`
	}

	for _, at := range []string{"09:30", "9:05", "23:59", "00:00"} {
		assert.NoError(t, ValidateStruct(&payload{At: at}), at)
	}
	for _, at := range []string{"24:00", "12:60", "noon", "1230"} {
		err := ValidateStruct(&payload{At: at})
		require.Error(t, err, at)
		assert.Equal(t, "must be a time in HH:MM format", FieldErrors(err)["at"])
	}
}
