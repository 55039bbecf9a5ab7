package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         string     `gorm:"type:varchar(20);not null;default:'user'"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'"`
	Phone        *string    `gorm:"type:varchar(20)"`
	Avatar       *string    `gorm:"type:text"`
	Deleted      bool       `gorm:"default:false;not null;index"`
	DeletedAt    *time.Time `gorm:"type:timestamp"`
	CreatedAt    time.Time  `gorm:"not null;index"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// FavoriteModel links a user to a car they saved
type FavoriteModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

func (FavoriteModel) TableName() string {
	return "user_favorites"
}

// PasswordResetModel represents the database model for PasswordResetRequest
type PasswordResetModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email             string     `gorm:"type:varchar(255);not null;index:idx_password_resets_email_otp"`
	OTP               string     `gorm:"column:otp;type:varchar(6);not null;index:idx_password_resets_email_otp"`
	ExpireAt          time.Time  `gorm:"not null;index"`
	OTPVerifiedAt     *time.Time `gorm:"column:otp_verified_at;type:timestamp"`
	ResetTokenHash    *string    `gorm:"type:varchar(64);index"`
	ResetTokenExpires *time.Time `gorm:"type:timestamp"`
	UsedAt            *time.Time `gorm:"type:timestamp"`
	CreatedAt         time.Time  `gorm:"not null"`
}

func (PasswordResetModel) TableName() string {
	return "password_resets"
}
