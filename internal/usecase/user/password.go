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

	"go.uber.org/zap"
)

// ForgotPassword stores a fresh reset code and emails it.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	err := s.forgotPassword(ctx, req)
	metrics.RecordAuth("forgot_password", err)
	return err
}

func (s *Service) forgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("event", "password_reset_requested_unknown_email"),
			)
			return appErrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	code, err := utils.GenerateNumericCode(codeLength)
	if err != nil {
		return err
	}

	ttl := s.config.Auth.ResetTTL()
	expiresAt := s.now().Add(ttl)
	if err := s.userRepo.SetResetCode(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	sendCtx, cancel := s.outboundContext(ctx)
	defer cancel()

	err = s.notifier.SendPasswordResetCode(sendCtx, user.Email, user.FullName, code, ttl)
	metrics.RecordNotification("password_reset", err)
	if err != nil {
		logger.Error("Failed to send password reset code",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send reset code: %w", err)
	}

	logger.Info("Password reset code issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", expiresAt),
		zap.String("event", "password_reset_code_issued"),
	)

	return nil
}

// ResetPassword replaces the password when email, code and expiry all match.
// The stored session is revoked in the same update.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	err := s.resetPassword(ctx, req)
	metrics.RecordAuth("reset_password", err)
	return err
}

func (s *Service) resetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)
	req.OTP = utils.SanitizeIdentifier(req.OTP)

	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewValidationError(utils.FieldErrors(err), err)
	}

	if err := s.passwordPolicy().Validate(req.NewPassword); err != nil {
		return weakPassword("newPassword", err)
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.ResetPassword(ctx, req.Email, req.OTP, s.now(), hashedPassword)
	if err != nil {
		if errors.Is(err, domainUser.ErrNoMatch) || errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Password reset with invalid code",
				zap.String("email", req.Email),
				zap.String("event", "password_reset_failed_invalid_code"),
			)
			return appErrors.ErrInvalidResetCode
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset_success"),
	)
	s.publish(ctx, domainUser.EventPasswordReset, user)

	return nil
}
