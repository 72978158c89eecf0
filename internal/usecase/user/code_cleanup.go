package user

import (
	"context"
	"estate-brokerage/internal/logger"
	"estate-brokerage/internal/metrics"
	"time"

	"go.uber.org/zap"
)

// StartCodeCleanupJob periodically unsets expired OTP and reset codes until ctx is done.
func (s *Service) StartCodeCleanupJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Warn("Code cleanup job disabled",
			zap.Duration("interval", interval),
		)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Code cleanup job started",
		zap.Duration("interval", interval),
	)

	s.cleanupExpiredCodes(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Code cleanup job stopped")
			return
		case <-ticker.C:
			s.cleanupExpiredCodes(ctx)
		}
	}
}

func (s *Service) cleanupExpiredCodes(ctx context.Context) {
	cleared, err := s.userRepo.ClearExpiredCodes(ctx, s.now())
	if err != nil {
		logger.Error("Failed to clear expired codes", zap.Error(err))
		return
	}

	metrics.ExpiredCodesCleared.Add(float64(cleared))
	logger.Debug("Expired codes cleared",
		zap.Int64("cleared", cleared),
	)
}
