package user

import (
	"context"
	"errors"
	domainUser "estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/metrics"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	federatedPasswordBytes  = 16
	federatedUsernameTries  = 5
	federatedUsernameMaxLen = 40
)

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming spends one bcrypt comparison so unknown identifiers cost
// the same as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = utils.HashPassword("estate-brokerage-timing")
	})
	utils.CheckPassword(dummyHash, password)
}

func (s *Service) Signin(ctx context.Context, req *SigninRequest) (*SigninResponse, error) {
	resp, err := s.signin(ctx, req)
	metrics.RecordAuth("signin", err)
	return resp, err
}

func (s *Service) signin(ctx context.Context, req *SigninRequest) (*SigninResponse, error) {
	req.Identifier = utils.SanitizeIdentifier(req.Identifier)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	user, err := s.userRepo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			equalizeTiming(req.Password)
			logger.Warn("Signin attempt with unknown identifier",
				zap.String("event", "signin_failed_unknown_identifier"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Signin attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "signin_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if s.config.Auth.RequiresVerification() && !user.IsVerified {
		logger.Warn("Signin attempt before verification",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "signin_failed_unverified"),
		)
		return nil, appErrors.ErrEmailNotVerified
	}

	access, refresh, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("User signed in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
		zap.String("event", "signin_success"),
	)
	s.publish(ctx, domainUser.EventSignedIn, user)

	return &SigninResponse{
		Message:      "Login successful",
		Token:        access,
		RefreshToken: refresh,
		User:         ToUserResponse(user),
	}, nil
}

// RefreshAccessToken mints a new access token for the stored refresh token.
// With rotation enabled the refresh token is also replaced.
func (s *Service) RefreshAccessToken(ctx context.Context, req *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	resp, err := s.refreshAccessToken(ctx, req)
	metrics.RecordAuth("refresh", err)
	return resp, err
}

func (s *Service) refreshAccessToken(ctx context.Context, req *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		return nil, appErrors.ErrInvalidRefreshToken
	}

	hash := utils.HashToken(token)
	user, err := s.userRepo.GetByRefreshTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Refresh with unknown token",
				zap.String("event", "refresh_failed_unknown_token"),
			)
			return nil, appErrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	claims, err := utils.ValidateToken(token, utils.TokenTypeRefresh, []byte(s.config.JWT.RefreshSecret))
	if err != nil || claims.UserID != user.ID {
		logger.Warn("Refresh with invalid token",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "refresh_failed_invalid_token"),
		)
		return nil, appErrors.ErrInvalidRefreshToken
	}

	access, err := s.accessToken(user)
	if err != nil {
		return nil, err
	}
	resp := &RefreshTokenResponse{Token: access}

	if s.config.JWT.RotateRefreshTokens {
		refresh, err := s.refreshToken(user)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.SwapRefreshToken(ctx, user.ID, hash, utils.HashToken(refresh)); err != nil {
			if errors.Is(err, domainUser.ErrNoMatch) || errors.Is(err, domainUser.ErrUserNotFound) {
				return nil, appErrors.ErrInvalidRefreshToken
			}
			return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
		}
		resp.RefreshToken = refresh
	}

	logger.Debug("Access token refreshed",
		zap.String("user_id", user.ID.String()),
		zap.Bool("rotated", resp.RefreshToken != ""),
		zap.String("event", "token_refreshed"),
	)

	return resp, nil
}

// FederatedSignin trusts the provider's (name, email) and signs the identity in,
// creating a verified identity on first use.
func (s *Service) FederatedSignin(ctx context.Context, req *FederatedSigninRequest) (*FederatedSigninResponse, error) {
	resp, err := s.federatedSignin(ctx, req)
	metrics.RecordAuth("federated_signin", err)
	return resp, err
}

func (s *Service) federatedSignin(ctx context.Context, req *FederatedSigninRequest) (*FederatedSigninResponse, error) {
	req.Token = strings.TrimSpace(req.Token)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	verifyCtx, cancel := s.outboundContext(ctx)
	profile, err := s.provider.Verify(verifyCtx, req.Token)
	cancel()
	if err != nil {
		logger.Warn("Provider token rejected",
			zap.String("event", "federated_signin_failed_token"),
			zap.Error(err),
		)
		return nil, appErrors.ErrInvalidProviderToken
	}

	email := utils.SanitizeEmail(profile.Email)
	if !utils.IsValidEmail(email) {
		logger.Warn("Provider profile without usable email",
			zap.String("event", "federated_signin_failed_profile"),
		)
		return nil, appErrors.ErrInvalidProviderToken
	}
	name := utils.SanitizeIdentifier(profile.Name)

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domainUser.ErrUserNotFound):
		user, err = s.createFederatedUser(ctx, name, email)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	case !user.IsVerified:
		user, err = s.claimPendingIdentity(ctx, user)
		if err != nil {
			return nil, err
		}
	}

	access, refresh, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("User signed in with provider",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "federated_signin_success"),
	)
	s.publish(ctx, domainUser.EventSignedIn, user)

	return &FederatedSigninResponse{
		Message:      "Google authentication successful",
		AccessToken:  access,
		RefreshToken: refresh,
		User:         ToUserResponse(user),
	}, nil
}

// claimPendingIdentity verifies an identity that was registered but never
// proved its mailbox. Whoever registered it may not own the address, so the
// password they chose and any reset code or session are replaced.
func (s *Service) claimPendingIdentity(ctx context.Context, pending *domainUser.User) (*domainUser.User, error) {
	hashedPassword, err := randomPasswordHash()
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.ClaimFederated(ctx, pending.ID, hashedPassword)
	if errors.Is(err, domainUser.ErrNoMatch) {
		// Verified concurrently; its credentials are already trusted.
		user, err = s.userRepo.GetByID(ctx, pending.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve user: %w", err)
		}
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending user: %w", err)
	}

	logger.Info("Pending identity claimed by provider",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "federated_claim_pending"),
	)
	s.publish(ctx, domainUser.EventVerified, user)

	return user, nil
}

func randomPasswordHash() (string, error) {
	password, err := utils.GenerateRandomPassword(federatedPasswordBytes)
	if err != nil {
		return "", err
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashedPassword, nil
}

func (s *Service) createFederatedUser(ctx context.Context, name, email string) (*domainUser.User, error) {
	hashedPassword, err := randomPasswordHash()
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = email
	}
	base := usernameFromEmail(email)
	now := s.now()

	for attempt := 0; attempt < federatedUsernameTries; attempt++ {
		username := base
		if attempt > 0 {
			suffix, err := utils.GenerateNumericCode(4)
			if err != nil {
				return nil, err
			}
			username = base + suffix
		}

		user := &domainUser.User{
			ID:             uuid.New(),
			FullName:       name,
			Username:       username,
			Email:          email,
			PasswordHashed: hashedPassword,
			Role:           domainUser.RoleUser,
			IsVerified:     true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		err := s.userRepo.Create(ctx, user)
		switch {
		case err == nil:
			logger.Info("Federated user created",
				zap.String("user_id", user.ID.String()),
				zap.String("username", user.Username),
				zap.String("event", "federated_user_created"),
			)
			s.publish(ctx, domainUser.EventFederatedSignup, user)
			return user, nil
		case errors.Is(err, domainUser.ErrUsernameTaken):
			continue
		case errors.Is(err, domainUser.ErrEmailTaken):
			// A concurrent signin created the identity first.
			existing, getErr := s.userRepo.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, fmt.Errorf("failed to retrieve user: %w", getErr)
			}
			return existing, nil
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to derive a free username for %q", base)
}

// usernameFromEmail keeps the username-safe characters of the local part.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	username := b.String()
	if len(username) > federatedUsernameMaxLen {
		username = username[:federatedUsernameMaxLen]
	}
	for len(username) < 3 {
		username += "user"
	}
	return username
}

// Signout revokes the caller's stored refresh token.
func (s *Service) Signout(ctx context.Context, userID uuid.UUID, req *SignoutRequest) error {
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		return appErrors.ErrInvalidRefreshToken
	}

	err := s.userRepo.ClearRefreshToken(ctx, userID, utils.HashToken(token))
	metrics.RecordAuth("signout", err)
	if err != nil {
		if errors.Is(err, domainUser.ErrNoMatch) || errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrInvalidRefreshToken
		}
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	logger.Info("User signed out",
		zap.String("user_id", userID.String()),
		zap.String("event", "signout_success"),
	)
	s.publish(ctx, domainUser.EventSignedOut, &domainUser.User{ID: userID})

	return nil
}

// startSession issues a token pair and persists the refresh token hash,
// replacing any previous session.
func (s *Service) startSession(ctx context.Context, user *domainUser.User) (string, string, error) {
	access, err := s.accessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.refreshToken(user)
	if err != nil {
		return "", "", err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, utils.HashToken(refresh)); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return access, refresh, nil
}

func (s *Service) accessToken(user *domainUser.User) (string, error) {
	return utils.GenerateToken(user.ID, user.Role, utils.TokenTypeAccess,
		[]byte(s.config.JWT.Secret), s.config.JWT.AccessTTL())
}

func (s *Service) refreshToken(user *domainUser.User) (string, error) {
	return utils.GenerateToken(user.ID, user.Role, utils.TokenTypeRefresh,
		[]byte(s.config.JWT.RefreshSecret), s.config.JWT.RefreshTTL())
}
