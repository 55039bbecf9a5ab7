package auth

import (
	userUC "fourwheeler-backend/internal/usecase/user"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,otp"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" validate:"required,max=128"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// AuthResponse is returned on login. The handler also sets both tokens as
// cookies.
type AuthResponse struct {
	User             *userUC.UserResponse `json:"user"`
	AccessToken      string               `json:"access_token"`
	RefreshToken     string               `json:"refresh_token"`
	ExpiresAt        int64                `json:"expires_at"`
	RefreshExpiresAt int64                `json:"refresh_expires_at"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type ResetTokenResponse struct {
	ResetToken string `json:"reset_token"`
	ExpiresAt  int64  `json:"expires_at"`
}
