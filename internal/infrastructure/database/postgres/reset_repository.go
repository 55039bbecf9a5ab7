package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetRepository implements domainUser.PasswordResetRepository
type PasswordResetRepository struct {
	db *DB
}

func NewPasswordResetRepository(db *DB) domainUser.PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, req *domainUser.PasswordResetRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	dbModel := &models.PasswordResetModel{
		ID:        req.ID,
		Email:     req.Email,
		OTP:       req.OTP,
		ExpireAt:  req.ExpireAt,
		CreatedAt: req.CreatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create password reset request: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) InvalidatePending(ctx context.Context, email string, at time.Time) error {
	err := r.db.DB.WithContext(ctx).
		Model(&models.PasswordResetModel{}).
		Where("email = ? AND used_at IS NULL", email).
		Update("used_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to invalidate password reset requests: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) FindByOTP(ctx context.Context, email, otp string) (*domainUser.PasswordResetRequest, error) {
	return r.findOne(ctx, r.db.DB.WithContext(ctx).
		Where("email = ? AND otp = ?", email, otp).
		Order("created_at DESC"))
}

func (r *PasswordResetRepository) MarkOTPVerified(ctx context.Context, id uuid.UUID, tokenHash string, expires, at time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.PasswordResetModel{}).
		Where("id = ? AND otp_verified_at IS NULL AND used_at IS NULL", id).
		Updates(map[string]interface{}{
			"otp_verified_at":     at,
			"reset_token_hash":    tokenHash,
			"reset_token_expires": expires,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to store reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missOrUsed(ctx, id)
	}
	return nil
}

func (r *PasswordResetRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*domainUser.PasswordResetRequest, error) {
	return r.findOne(ctx, r.db.DB.WithContext(ctx).Where("reset_token_hash = ?", tokenHash))
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.PasswordResetModel{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to consume password reset request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missOrUsed(ctx, id)
	}
	return nil
}

func (r *PasswordResetRepository) ReleaseUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	err := r.db.DB.WithContext(ctx).
		Model(&models.PasswordResetModel{}).
		Where("id = ? AND used_at = ?", id, usedAt).
		Update("used_at", nil).Error
	if err != nil {
		return fmt.Errorf("failed to release password reset request: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("expire_at < ? AND (reset_token_expires IS NULL OR reset_token_expires < ?)", before, before).
		Delete(&models.PasswordResetModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired password reset requests: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *PasswordResetRepository) findOne(_ context.Context, db *gorm.DB) (*domainUser.PasswordResetRequest, error) {
	var m models.PasswordResetModel
	err := db.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrResetRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset request: %w", err)
	}
	return &domainUser.PasswordResetRequest{
		ID:                m.ID,
		Email:             m.Email,
		OTP:               m.OTP,
		ExpireAt:          m.ExpireAt,
		OTPVerifiedAt:     m.OTPVerifiedAt,
		ResetTokenHash:    m.ResetTokenHash,
		ResetTokenExpires: m.ResetTokenExpires,
		UsedAt:            m.UsedAt,
		CreatedAt:         m.CreatedAt,
	}, nil
}

func (r *PasswordResetRepository) missOrUsed(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&models.PasswordResetModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to get password reset request: %w", err)
	}
	if count == 0 {
		return domainUser.ErrResetRequestNotFound
	}
	return domainUser.ErrResetRequestUsed
}
