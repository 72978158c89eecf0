package user

import (
	"context"
	"errors"
	"estate-brokerage/internal/config"
	domainUser "estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/metrics"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	codeLength             = 6
	verificationTokenBytes = 32
)

// Service implements the credential and session use cases
type Service struct {
	userRepo domainUser.Repository
	notifier domainUser.Notifier
	provider domainUser.IdentityProvider
	images   domainUser.ImageStore
	events   domainUser.EventPublisher
	config   *config.Config
	now      func() time.Time
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	notifier domainUser.Notifier,
	provider domainUser.IdentityProvider,
	images domainUser.ImageStore,
	events domainUser.EventPublisher,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo: userRepo,
		notifier: notifier,
		provider: provider,
		images:   images,
		events:   events,
		config:   cfg,
		now:      time.Now,
	}
}

// Register creates an identity and dispatches its verification artifact.
// image may be nil.
func (s *Service) Register(ctx context.Context, req *RegisterRequest, image *utils.Image) (*RegisterResponse, error) {
	resp, err := s.register(ctx, req, image)
	metrics.RecordAuth("register", err)
	return resp, err
}

func (s *Service) register(ctx context.Context, req *RegisterRequest, image *utils.Image) (*RegisterResponse, error) {
	req.FullName = utils.SanitizeIdentifier(req.FullName)
	req.Username = utils.SanitizeIdentifier(req.Username)
	req.Email = utils.SanitizeEmail(req.Email)
	req.PhoneNumber = utils.SanitizePhone(req.PhoneNumber)
	req.Nationality = utils.SanitizeIdentifier(req.Nationality)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	if err := s.passwordPolicy().Validate(req.Password); err != nil {
		return nil, weakPassword("password", err)
	}

	existing, err := s.userRepo.FindByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		if existing.Email == req.Email {
			return nil, s.conflict(appErrors.ErrEmailExists, req)
		}
		return nil, s.conflict(appErrors.ErrUsernameExists, req)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domainUser.User{
		ID:             uuid.New(),
		FullName:       req.FullName,
		Username:       req.Username,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Nationality:    req.Nationality,
		PasswordHashed: hashedPassword,
		Role:           domainUser.RoleUser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	pending, artifact, err := s.newVerification(now)
	if err != nil {
		return nil, err
	}
	user.Verification = pending
	user.IsVerified = pending == nil

	if image != nil {
		name, err := s.images.Save(ctx, image.Data, image.ContentType, image.Extension)
		if err != nil {
			return nil, fmt.Errorf("failed to store profile picture: %w", err)
		}
		user.ProfilePicture = name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.discardImage(ctx, user.ProfilePicture)
		switch {
		case errors.Is(err, domainUser.ErrEmailTaken):
			return nil, s.conflict(appErrors.ErrEmailExists, req)
		case errors.Is(err, domainUser.ErrUsernameTaken):
			return nil, s.conflict(appErrors.ErrUsernameExists, req)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendVerification(ctx, user, artifact); err != nil {
		// Without a delivered artifact the identity could never verify.
		cleanupCtx := context.WithoutCancel(ctx)
		if delErr := s.userRepo.Delete(cleanupCtx, user.ID); delErr != nil {
			logger.Error("Failed to roll back registration",
				zap.String("user_id", user.ID.String()),
				zap.Error(delErr),
			)
		}
		s.discardImage(cleanupCtx, user.ProfilePicture)
		return nil, fmt.Errorf("failed to send verification: %w", err)
	}

	resp := &RegisterResponse{User: ToUserResponse(user)}
	switch s.config.Auth.VerificationMode {
	case config.VerificationOTP:
		resp.Message = "User created. Please verify your OTP."
	case config.VerificationEmailToken:
		resp.Message = "User created. Please check your email to verify your account."
	default:
		access, refresh, err := s.startSession(ctx, user)
		if err != nil {
			return nil, err
		}
		resp.Message = "User created successfully"
		resp.Token = access
		resp.RefreshToken = refresh
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("verification_mode", string(s.config.Auth.VerificationMode)),
		zap.String("event", "user_registered"),
	)
	s.publish(ctx, domainUser.EventRegistered, user)

	return resp, nil
}

// VerifyOTP marks the identity verified when code matches its unexpired OTP.
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)
	req.OTP = utils.SanitizeIdentifier(req.OTP)

	if err := utils.ValidateStruct(req); err != nil {
		metrics.RecordAuth("verify_otp", err)
		return appErrors.ErrInvalidOTP
	}

	user, err := s.userRepo.ConsumeOTP(ctx, req.Email, req.OTP, s.now())
	metrics.RecordAuth("verify_otp", err)
	if err != nil {
		if errors.Is(err, domainUser.ErrNoMatch) || errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("OTP verification failed",
				zap.String("email", req.Email),
				zap.String("event", "otp_verification_failed"),
			)
			return appErrors.ErrInvalidOTP
		}
		return fmt.Errorf("failed to verify otp: %w", err)
	}

	logger.Info("User verified by OTP",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "user_verified_otp"),
	)
	s.publish(ctx, domainUser.EventVerified, user)

	return nil
}

// VerifyEmailToken marks the identity holding token as verified.
func (s *Service) VerifyEmailToken(ctx context.Context, token string) error {
	token = utils.SanitizeIdentifier(token)
	if token == "" {
		metrics.RecordAuth("verify_email", appErrors.ErrInvalidVerificationToken)
		return appErrors.ErrInvalidVerificationToken
	}

	user, err := s.userRepo.ConsumeVerificationToken(ctx, utils.HashToken(token))
	metrics.RecordAuth("verify_email", err)
	if err != nil {
		if errors.Is(err, domainUser.ErrNoMatch) || errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Email verification with unknown token",
				zap.String("event", "email_verification_failed"),
			)
			return appErrors.ErrInvalidVerificationToken
		}
		return fmt.Errorf("failed to verify email token: %w", err)
	}

	logger.Info("User verified by email link",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "user_verified_email"),
	)
	s.publish(ctx, domainUser.EventVerified, user)

	return nil
}

// ResendVerification issues a fresh artifact, superseding the previous one.
func (s *Service) ResendVerification(ctx context.Context, req *ResendVerificationRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	if user.IsVerified || !s.config.Auth.RequiresVerification() {
		return appErrors.ErrAlreadyVerified
	}

	pending, artifact, err := s.newVerification(s.now())
	if err != nil {
		return err
	}

	if err := s.userRepo.SetVerification(ctx, user.ID, pending); err != nil {
		if errors.Is(err, domainUser.ErrNoMatch) {
			return appErrors.ErrAlreadyVerified
		}
		return fmt.Errorf("failed to store verification: %w", err)
	}

	if err := s.sendVerification(ctx, user, artifact); err != nil {
		return fmt.Errorf("failed to send verification: %w", err)
	}

	logger.Info("Verification resent",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "verification_resent"),
	)

	return nil
}

// newVerification builds the pending state for the configured mode and the
// artifact to deliver. Both are nil/empty when verification is disabled.
func (s *Service) newVerification(now time.Time) (*domainUser.PendingVerification, string, error) {
	switch s.config.Auth.VerificationMode {
	case config.VerificationOTP:
		code, err := utils.GenerateNumericCode(codeLength)
		if err != nil {
			return nil, "", err
		}
		expiresAt := now.Add(s.config.Auth.OTPTTL())
		return &domainUser.PendingVerification{
			Kind:      domainUser.VerificationOTP,
			Secret:    code,
			ExpiresAt: &expiresAt,
		}, code, nil
	case config.VerificationEmailToken:
		token, err := utils.GenerateOpaqueToken(verificationTokenBytes)
		if err != nil {
			return nil, "", err
		}
		return &domainUser.PendingVerification{
			Kind:   domainUser.VerificationEmailToken,
			Secret: utils.HashToken(token),
		}, token, nil
	default:
		return nil, "", nil
	}
}

func (s *Service) sendVerification(ctx context.Context, user *domainUser.User, artifact string) error {
	if artifact == "" {
		return nil
	}

	ctx, cancel := s.outboundContext(ctx)
	defer cancel()

	var (
		kind string
		err  error
	)
	switch s.config.Auth.VerificationMode {
	case config.VerificationOTP:
		kind = "verification_otp"
		err = s.notifier.SendVerificationOTP(ctx, user.Email, user.FullName, artifact, s.config.Auth.OTPTTL())
	case config.VerificationEmailToken:
		kind = "verification_link"
		link := s.config.Auth.FrontendURL + "/verify-email/" + artifact
		err = s.notifier.SendVerificationLink(ctx, user.Email, user.FullName, link)
	}
	metrics.RecordNotification(kind, err)

	if err != nil {
		logger.Error("Failed to send verification",
			zap.String("user_id", user.ID.String()),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}

	return err
}

func (s *Service) outboundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := s.config.Auth.OutboundTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Service) conflict(err error, req *RegisterRequest) error {
	logger.Warn("Registration attempt with existing identity",
		zap.String("email", req.Email),
		zap.String("username", req.Username),
		zap.String("reason", err.Error()),
		zap.String("event", "registration_failed_duplicate"),
	)
	return err
}

func (s *Service) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil {
		logger.Error("Failed to remove orphaned profile picture",
			zap.String("file", name),
			zap.Error(err),
		)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, user *domainUser.User) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, domainUser.Event{
		Type:       eventType,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: s.now(),
	})
}

func (s *Service) passwordPolicy() utils.PasswordPolicy {
	return utils.PasswordPolicy{
		MinLength:             s.config.Auth.PasswordMinLength,
		RequireLetterAndDigit: s.config.Auth.PasswordRequireLetters,
	}
}

func weakPassword(field string, err error) error {
	return &appErrors.AppError{
		Code:    appErrors.CodeWeakPassword,
		Message: err.Error(),
		Fields:  map[string]string{field: err.Error()},
	}
}
