package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"estate-brokerage/internal/config"
	domainUser "estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/middleware"
	"estate-brokerage/internal/usecase/user"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testJWT = &config.JWTConfig{Secret: "access-secret", RefreshSecret: "refresh-secret"}

	testAdminID = uuid.New()
	staff       = roleDirectory{testAdminID: domainUser.RoleAdmin}

	pngFixture = []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
	}
)

func newRouter(auth *mockAuthService, profiles *mockProfileService) *gin.Engine {
	r := gin.New()

	authGroup := r.Group("/api/auth")
	authHandler := NewAuthHandler(auth, 64)
	userHandler := NewUserHandler(profiles)
	authHandler.RegisterRoutes(authGroup)
	userHandler.RegisterRoutes(authGroup)

	protected := authGroup.Group("")
	protected.Use(middleware.AuthMiddleware(testJWT))
	authHandler.RegisterProtectedRoutes(protected)
	userHandler.RegisterProfileRoutes(protected)

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(testJWT), middleware.AdminOnly(staff))
	userHandler.RegisterAdminRoutes(admin)

	return r
}

// roleDirectory serves stored roles by id. Unknown ids are not found.
type roleDirectory map[uuid.UUID]string

func (d roleDirectory) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	role, ok := d[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return &domainUser.User{ID: id, Role: role}, nil
}

func postJSON(r http.Handler, path string, body any, header http.Header) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func accessHeader(t *testing.T, userID uuid.UUID, role string) http.Header {
	t.Helper()
	token, err := utils.GenerateToken(userID, role, utils.TokenTypeAccess, []byte(testJWT.Secret), time.Minute)
	require.NoError(t, err)
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func signupForm(t *testing.T, picture []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"fullName":    "Alice Example",
		"username":    "alice",
		"email":       "a@x.com",
		"phoneNumber": "+14155550123",
		"nationality": "US",
		"password":    "Str0ng!Pass",
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if picture != nil {
		part, err := writer.CreateFormFile(profilePictureField, "me.png")
		require.NoError(t, err)
		_, err = part.Write(picture)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestSignup(t *testing.T) {
	created := &user.RegisterResponse{
		Message: "User created. Please verify your OTP.",
		User:    &user.UserResponse{ID: uuid.New(), Username: "alice", Email: "a@x.com"},
	}

	t.Run("json body", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Register", mock.Anything, mock.MatchedBy(func(req *user.RegisterRequest) bool {
			return req.Username == "alice" && req.Email == "a@x.com"
		}), (*utils.Image)(nil)).Return(created, nil).Once()

		w := postJSON(newRouter(auth, nil), "/api/auth/signup", gin.H{
			"fullName": "Alice Example", "username": "alice", "email": "a@x.com",
			"phoneNumber": "+14155550123", "nationality": "US", "password": "Str0ng!Pass",
		}, nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, created.Message, body["message"])
		assert.NotContains(t, w.Body.String(), "password")
		auth.AssertExpectations(t)
	})

	t.Run("multipart with picture", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Register", mock.Anything, mock.Anything, mock.MatchedBy(func(img *utils.Image) bool {
			return img != nil && img.ContentType == "image/png" && img.Extension == ".png"
		})).Return(created, nil).Once()

		form, contentType := signupForm(t, pngFixture)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", form)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newRouter(auth, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		auth.AssertExpectations(t)
	})

	t.Run("non image upload", func(t *testing.T) {
		auth := new(mockAuthService)

		form, contentType := signupForm(t, []byte("plain text, not a picture"))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", form)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newRouter(auth, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("oversized upload", func(t *testing.T) {
		auth := new(mockAuthService)

		form, contentType := signupForm(t, append(pngFixture, make([]byte, 64)...))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", form)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newRouter(auth, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("conflicts name the field", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Register", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, appErrors.ErrEmailExists).Once()
		auth.On("Register", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, appErrors.ErrUsernameExists).Once()
		r := newRouter(auth, nil)

		w := postJSON(r, "/api/auth/signup", gin.H{"email": "a@x.com"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email already exists", decode(t, w)["message"])

		w = postJSON(r, "/api/auth/signup", gin.H{"email": "b@x.com"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Username already exists", decode(t, w)["message"])
	})

	t.Run("validation errors list fields", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Register", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, appErrors.NewValidationError(map[string]string{"email": "must be a valid email"}, nil)).Once()

		w := postJSON(newRouter(auth, nil), "/api/auth/signup", gin.H{"email": "nope"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Invalid input", body["message"])
		assert.Equal(t, map[string]any{"email": "must be a valid email"}, body["errors"])
	})

	t.Run("internal errors stay opaque", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("Register", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("smtp: connection refused")).Once()

		w := postJSON(newRouter(auth, nil), "/api/auth/signup", gin.H{"email": "a@x.com"}, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decode(t, w)["message"])
		assert.NotContains(t, w.Body.String(), "smtp")
	})
}

func TestVerificationRoutes(t *testing.T) {
	t.Run("verify otp", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("VerifyOTP", mock.Anything, &user.VerifyOTPRequest{Email: "a@x.com", OTP: "123456"}).Return(nil).Once()
		auth.On("VerifyOTP", mock.Anything, mock.Anything).Return(appErrors.ErrInvalidOTP).Once()
		r := newRouter(auth, nil)

		w := postJSON(r, "/api/auth/verify-otp", gin.H{"email": "a@x.com", "otp": "123456"}, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = postJSON(r, "/api/auth/verify-otp", gin.H{"email": "a@x.com", "otp": "000000"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid or expired OTP", decode(t, w)["message"])
	})

	t.Run("verify email link", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("VerifyEmailToken", mock.Anything, "good").Return(nil).Once()
		auth.On("VerifyEmailToken", mock.Anything, "bad").Return(appErrors.ErrInvalidVerificationToken).Once()
		r := newRouter(auth, nil)

		assert.Equal(t, http.StatusOK, get(r, "/api/auth/verify-email/good", nil).Code)
		assert.Equal(t, http.StatusBadRequest, get(r, "/api/auth/verify-email/bad", nil).Code)
	})

	t.Run("resend", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("ResendVerification", mock.Anything, mock.Anything).Return(appErrors.ErrAlreadyVerified).Once()
		auth.On("ResendVerification", mock.Anything, mock.Anything).Return(appErrors.ErrUserNotFound).Once()
		r := newRouter(auth, nil)

		assert.Equal(t, http.StatusBadRequest, postJSON(r, "/api/auth/resend-verification", gin.H{"email": "a@x.com"}, nil).Code)
		assert.Equal(t, http.StatusNotFound, postJSON(r, "/api/auth/resend-verification", gin.H{"email": "z@x.com"}, nil).Code)
	})
}

func TestSigninRoute(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("Signin", mock.Anything, &user.SigninRequest{Identifier: "alice", Password: "Str0ng!Pass"}).
		Return(&user.SigninResponse{Message: "Login successful", Token: "access", RefreshToken: "refresh"}, nil).Once()
	auth.On("Signin", mock.Anything, &user.SigninRequest{Identifier: "alice", Password: "wrong"}).
		Return(nil, appErrors.ErrInvalidCredentials).Once()
	auth.On("Signin", mock.Anything, &user.SigninRequest{Identifier: "bob", Password: "Str0ng!Pass"}).
		Return(nil, appErrors.ErrEmailNotVerified).Once()
	r := newRouter(auth, nil)

	w := postJSON(r, "/api/auth/signin", gin.H{"identifier": "alice", "password": "Str0ng!Pass"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "access", body["token"])
	assert.Equal(t, "refresh", body["refreshToken"])

	w = postJSON(r, "/api/auth/signin", gin.H{"identifier": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["message"])

	w = postJSON(r, "/api/auth/signin", gin.H{"identifier": "bob", "password": "Str0ng!Pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Please verify your email first", decode(t, w)["message"])

	auth.AssertExpectations(t)
}

func TestGoogleAuthRoute(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("FederatedSignin", mock.Anything, &user.FederatedSigninRequest{Token: "id-token"}).
		Return(&user.FederatedSigninResponse{AccessToken: "a", RefreshToken: "r"}, nil).Once()
	auth.On("FederatedSignin", mock.Anything, &user.FederatedSigninRequest{Token: "forged"}).
		Return(nil, appErrors.ErrInvalidProviderToken).Once()
	r := newRouter(auth, nil)

	w := postJSON(r, "/api/auth/google-auth", gin.H{"token": "id-token"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a", decode(t, w)["accessToken"])

	w = postJSON(r, "/api/auth/google-auth", gin.H{"token": "forged"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshTokenRoute(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("RefreshAccessToken", mock.Anything, &user.RefreshTokenRequest{RefreshToken: "good"}).
		Return(&user.RefreshTokenResponse{Token: "fresh"}, nil).Once()
	auth.On("RefreshAccessToken", mock.Anything, &user.RefreshTokenRequest{RefreshToken: "stale"}).
		Return(nil, appErrors.ErrInvalidRefreshToken).Once()
	r := newRouter(auth, nil)

	w := postJSON(r, "/api/auth/refresh-token", gin.H{"refreshToken": "good"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "fresh", body["token"])
	assert.NotContains(t, body, "refreshToken")

	w = postJSON(r, "/api/auth/refresh-token", gin.H{"refreshToken": "stale"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/auth/refresh-token", gin.H{}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Refresh token required", decode(t, w)["message"])
}

func TestPasswordRoutes(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("ForgotPassword", mock.Anything, &user.ForgotPasswordRequest{Email: "a@x.com"}).Return(nil).Once()
	auth.On("ForgotPassword", mock.Anything, &user.ForgotPasswordRequest{Email: "z@x.com"}).Return(appErrors.ErrUserNotFound).Once()
	auth.On("ResetPassword", mock.Anything, mock.MatchedBy(func(req *user.ResetPasswordRequest) bool {
		return req.OTP == "000000"
	})).Return(appErrors.ErrInvalidResetCode).Once()
	auth.On("ResetPassword", mock.Anything, mock.MatchedBy(func(req *user.ResetPasswordRequest) bool {
		return req.OTP == "123456"
	})).Return(nil).Once()
	r := newRouter(auth, nil)

	assert.Equal(t, http.StatusOK, postJSON(r, "/api/auth/forgot-password", gin.H{"email": "a@x.com"}, nil).Code)
	assert.Equal(t, http.StatusNotFound, postJSON(r, "/api/auth/forgot-password", gin.H{"email": "z@x.com"}, nil).Code)

	w := postJSON(r, "/api/auth/reset-password", gin.H{"email": "a@x.com", "otp": "000000", "newPassword": "N3w!Passw0rd"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/auth/reset-password", gin.H{"email": "a@x.com", "otp": "123456", "newPassword": "N3w!Passw0rd"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password reset successfully", decode(t, w)["message"])
}

func TestSignoutRoute(t *testing.T) {
	userID := uuid.New()
	auth := new(mockAuthService)
	auth.On("Signout", mock.Anything, userID, &user.SignoutRequest{RefreshToken: "refresh"}).Return(nil).Once()
	auth.On("Signout", mock.Anything, userID, &user.SignoutRequest{RefreshToken: "other"}).Return(appErrors.ErrInvalidRefreshToken).Once()
	r := newRouter(auth, nil)

	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/api/auth/signout", gin.H{"refreshToken": "refresh"}, nil).Code)

	header := accessHeader(t, userID, "user")
	assert.Equal(t, http.StatusOK, postJSON(r, "/api/auth/signout", gin.H{"refreshToken": "refresh"}, header).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/api/auth/signout", gin.H{"refreshToken": "other"}, header).Code)
	auth.AssertExpectations(t)
}

func TestProfileRoutes(t *testing.T) {
	userID := uuid.New()

	t.Run("me", func(t *testing.T) {
		profiles := new(mockProfileService)
		profiles.On("GetProfile", mock.Anything, userID).
			Return(&user.UserResponse{ID: userID, Username: "alice"}, nil).Once()
		r := newRouter(nil, profiles)

		w := get(r, "/api/auth/me", accessHeader(t, userID, "user"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", decode(t, w)["user"].(map[string]any)["username"])

		assert.Equal(t, http.StatusUnauthorized, get(r, "/api/auth/me", nil).Code)
	})

	t.Run("admin listing", func(t *testing.T) {
		profiles := new(mockProfileService)
		profiles.On("ListUsers", mock.Anything).
			Return(&user.UserListResponse{Users: []*user.UserResponse{{Username: "alice"}}}, nil).Once()
		r := newRouter(nil, profiles)

		assert.Equal(t, http.StatusForbidden, get(r, "/api/admin/users", accessHeader(t, userID, "user")).Code)

		assert.Equal(t, http.StatusForbidden, get(r, "/api/admin/users", accessHeader(t, userID, "admin")).Code,
			"a forged role claim is not enough")

		w := get(r, "/api/admin/users", accessHeader(t, testAdminID, "admin"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["users"], 1)
	})

	t.Run("profile picture", func(t *testing.T) {
		profiles := new(mockProfileService)
		profiles.On("OpenProfilePicture", mock.Anything, "me.png").
			Return(io.NopCloser(bytes.NewReader(pngFixture)), "image/png", nil).Once()
		profiles.On("OpenProfilePicture", mock.Anything, "gone.png").
			Return(nil, "", appErrors.ErrImageNotFound).Once()
		r := newRouter(nil, profiles)

		w := get(r, "/api/auth/profile-picture/me.png", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, pngFixture, w.Body.Bytes())

		w = get(r, "/api/auth/profile-picture/gone.png", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "Image not found"))
	})
}
