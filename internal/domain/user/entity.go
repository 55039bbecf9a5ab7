package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive = "active"
)

// User represents an account in the domain. Accounts are never removed, only
// flagged as deleted.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	Phone        *string
	Avatar       *string
	Favorites    []uuid.UUID
	Deleted      bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasFavorite(carID uuid.UUID) bool {
	for _, id := range u.Favorites {
		if id == carID {
			return true
		}
	}
	return false
}

// PasswordResetRequest tracks one forgot-password attempt from OTP issuance
// through the final password change.
type PasswordResetRequest struct {
	ID                uuid.UUID
	Email             string
	OTP               string
	ExpireAt          time.Time
	OTPVerifiedAt     *time.Time
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	UsedAt            *time.Time
	CreatedAt         time.Time
}

// OTPUsable reports whether the OTP can still be exchanged for a reset token.
func (r *PasswordResetRequest) OTPUsable(now time.Time) bool {
	return r.OTPVerifiedAt == nil && r.UsedAt == nil && now.Before(r.ExpireAt)
}

// ResetTokenUsable reports whether the issued reset token can still change
// the password.
func (r *PasswordResetRequest) ResetTokenUsable(now time.Time) bool {
	if r.ResetTokenHash == nil || r.ResetTokenExpires == nil || r.UsedAt != nil {
		return false
	}
	return now.Before(*r.ResetTokenExpires)
}

// Filter represents filtering options for listing users
type Filter struct {
	IncludeDeleted bool
	Page           int
	PageSize       int
}
