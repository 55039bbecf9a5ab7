package auth

import (
	"context"
	"time"

	"fourwheeler-backend/internal/logger"

	"go.uber.org/zap"
)

// StartResetCleanupJob deletes finished password reset requests on every
// tick until ctx is cancelled.
func (s *Service) StartResetCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Password reset cleanup job started",
		zap.Duration("interval", interval),
	)

	s.cleanupExpiredResets(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Password reset cleanup job stopped")
			return
		case <-ticker.C:
			s.cleanupExpiredResets(ctx)
		}
	}
}

func (s *Service) cleanupExpiredResets(ctx context.Context) {
	deleted, err := s.resetRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		logger.Error("Failed to delete expired password reset requests", zap.Error(err))
		return
	}

	logger.Debug("Expired password reset requests cleaned up",
		zap.Int64("deleted", deleted),
	)
}
