package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/logger"
	userUC "fourwheeler-backend/internal/usecase/user"
	appErrors "fourwheeler-backend/pkg/errors"
	"fourwheeler-backend/pkg/utils"

	"go.uber.org/zap"
)

// ForgotPassword emails a fresh OTP to an active account. Earlier pending
// requests for the same email stop being usable.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.Validation(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "password_reset_requested_non_existent_email"),
			)
			return appErrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	now := s.now()
	if err := s.resetRepo.InvalidatePending(ctx, user.Email, now); err != nil {
		return fmt.Errorf("failed to invalidate pending reset requests: %w", err)
	}

	otp, err := utils.GenerateOTP(otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	ttl := s.resetCfg.OTPTTL()
	resetReq := &domainUser.PasswordResetRequest{
		Email:     user.Email,
		OTP:       otp,
		ExpireAt:  now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.resetRepo.Create(ctx, resetReq); err != nil {
		return fmt.Errorf("failed to create reset request: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, user.Email, otp, ttl); err != nil {
		logger.Error("Failed to send password reset OTP",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.Error(err),
			zap.String("event", "password_reset_otp_send_failed"),
		)
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	logger.Info("Password reset OTP issued",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("request_id", resetReq.ID.String()),
		zap.Time("expires_at", resetReq.ExpireAt),
		zap.String("event", "password_reset_otp_issued"),
	)

	return nil
}

// VerifyOTP exchanges a valid OTP for a single-use reset token. Only the
// token's hash is stored.
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*ResetTokenResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	req.OTP = utils.SanitizeString(req.OTP)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	now := s.now()
	resetReq, err := s.resetRepo.FindByOTP(ctx, req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, domainUser.ErrResetRequestNotFound) {
			logger.Warn("OTP verification with unknown code",
				zap.String("email", req.Email),
				zap.String("event", "password_reset_otp_invalid"),
			)
			return nil, appErrors.ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to find reset request: %w", err)
	}

	if !resetReq.OTPUsable(now) {
		logger.Warn("OTP verification with expired or consumed code",
			zap.String("email", req.Email),
			zap.String("request_id", resetReq.ID.String()),
			zap.String("event", "password_reset_otp_expired"),
		)
		return nil, appErrors.ErrInvalidOTP
	}

	resetToken, err := utils.GenerateResetToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}
	expires := now.Add(s.resetCfg.ResetTokenTTL())

	if err := s.resetRepo.MarkOTPVerified(ctx, resetReq.ID, utils.HashToken(resetToken), expires, now); err != nil {
		if errors.Is(err, domainUser.ErrResetRequestUsed) || errors.Is(err, domainUser.ErrResetRequestNotFound) {
			return nil, appErrors.ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	logger.Info("Password reset OTP verified",
		zap.String("email", req.Email),
		zap.String("request_id", resetReq.ID.String()),
		zap.Time("expires_at", expires),
		zap.String("event", "password_reset_otp_verified"),
	)

	return &ResetTokenResponse{
		ResetToken: resetToken,
		ExpiresAt:  expires.Unix(),
	}, nil
}

// ResetPassword consumes a reset token and sets the new password. Each token
// changes the password at most once.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	req.ResetToken = strings.TrimSpace(req.ResetToken)

	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.Validation(err)
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.NewAppError(appErrors.CodeWeakPassword, err.Error(), appErrors.ErrWeakPassword)
	}

	now := s.now()
	resetReq, err := s.resetRepo.FindByResetTokenHash(ctx, utils.HashToken(req.ResetToken))
	if err != nil {
		if errors.Is(err, domainUser.ErrResetRequestNotFound) {
			logger.Warn("Password reset attempt with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
			return appErrors.ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to find reset request: %w", err)
	}

	if !resetReq.ResetTokenUsable(now) {
		logger.Warn("Password reset attempt with expired or used token",
			zap.String("request_id", resetReq.ID.String()),
			zap.String("event", "password_reset_failed_token_unusable"),
		)
		return appErrors.ErrResetTokenInvalid
	}

	user, err := s.userRepo.GetByEmail(ctx, resetReq.Email)
	if err != nil {
		return userUC.UserError(err)
	}

	if utils.CheckPassword(user.PasswordHash, req.NewPassword) {
		return appErrors.NewAppError(appErrors.CodeInvalidInput, appErrors.ErrPasswordReused.Error(), appErrors.ErrPasswordReused)
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Consume the token first; a failed password write releases it again
	if err := s.resetRepo.MarkUsed(ctx, resetReq.ID, now); err != nil {
		if errors.Is(err, domainUser.ErrResetRequestUsed) {
			return appErrors.ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		if releaseErr := s.resetRepo.ReleaseUsed(ctx, resetReq.ID, now); releaseErr != nil {
			logger.Error("Failed to release reset token after password update failure",
				zap.String("request_id", resetReq.ID.String()),
				zap.Error(releaseErr),
				zap.String("event", "password_reset_release_failed"),
			)
		}
		return userUC.UserError(err)
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("request_id", resetReq.ID.String()),
		zap.String("event", "password_reset_success"),
	)

	return nil
}
