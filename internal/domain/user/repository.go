package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations. Lookups
// only return accounts that are not soft-deleted unless stated otherwise.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter *Filter) ([]*User, int64, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	SoftDelete(ctx context.Context, userID uuid.UUID, at time.Time) error

	AddFavorite(ctx context.Context, userID, carID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, carID uuid.UUID) error
}

// PasswordResetRepository defines the interface for password reset records
type PasswordResetRepository interface {
	Create(ctx context.Context, req *PasswordResetRequest) error
	// InvalidatePending marks every unused request for the email as used.
	InvalidatePending(ctx context.Context, email string, at time.Time) error
	// FindByOTP returns the most recent request matching email and otp.
	FindByOTP(ctx context.Context, email, otp string) (*PasswordResetRequest, error)
	// MarkOTPVerified stores the reset token hash, failing with
	// ErrResetRequestUsed when the OTP was already exchanged.
	MarkOTPVerified(ctx context.Context, id uuid.UUID, tokenHash string, expires, at time.Time) error
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*PasswordResetRequest, error)
	// MarkUsed consumes the request, failing with ErrResetRequestUsed when it
	// was consumed already.
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	// ReleaseUsed undoes a MarkUsed made at usedAt. A request consumed at any
	// other time is left alone.
	ReleaseUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	// DeleteExpired removes requests whose OTP and reset token windows both
	// ended before the given time.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
