package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fourwheeler-backend/internal/config"
	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/infrastructure/google"
	"fourwheeler-backend/internal/logger"
	userUC "fourwheeler-backend/internal/usecase/user"
	appErrors "fourwheeler-backend/pkg/errors"
	"fourwheeler-backend/pkg/token"
	"fourwheeler-backend/pkg/utils"

	"go.uber.org/zap"
)

const (
	otpLength               = 6
	generatedSuffixLength   = 7
	generatedPasswordLength = 16
	maxUsernameAttempts     = 3
)

type Mailer interface {
	SendOTP(ctx context.Context, to, otp string, validFor time.Duration) error
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.Identity, error)
}

// Service implements authentication and password reset use cases
type Service struct {
	userRepo  domainUser.Repository
	resetRepo domainUser.PasswordResetRepository
	issuer    *token.Issuer
	mailer    Mailer
	google    GoogleVerifier
	resetCfg  config.PasswordResetConfig
	now       func() time.Time
}

// NewService creates a new auth service. A nil verifier disables Google
// sign-in.
func NewService(
	userRepo domainUser.Repository,
	resetRepo domainUser.PasswordResetRepository,
	issuer *token.Issuer,
	mailer Mailer,
	verifier GoogleVerifier,
	resetCfg config.PasswordResetConfig,
) *Service {
	return &Service{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		issuer:    issuer,
		mailer:    mailer,
		google:    verifier,
		resetCfg:  resetCfg,
		now:       time.Now,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*userUC.UserResponse, error) {
	req.Username = utils.SanitizeString(req.Username)
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeWeakPassword, err.Error(), appErrors.ErrWeakPassword)
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create domain entity
	now := s.now()
	user := &domainUser.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         domainUser.RoleUser,
		Status:       domainUser.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Save user; the unique indexes decide duplicates
	if err := s.userRepo.Create(ctx, user); err != nil {
		err = userUC.UserError(err)
		if errors.Is(err, appErrors.ErrUsernameTaken) || errors.Is(err, appErrors.ErrEmailTaken) {
			logger.Warn("Registration attempt with existing credentials",
				zap.String("email", req.Email),
				zap.String("username", req.Username),
				zap.String("event", "registration_failed_duplicate"),
			)
		}
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("event", "user_registered"),
	)

	return userUC.ToUserResponse(user), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	// Get user by email
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}

	// Verify password
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	// Generate tokens
	res, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.String("event", "login_success"),
	)

	return res, nil
}

// GoogleLogin signs in with a Google ID token, provisioning an account on
// first use.
func (s *Service) GoogleLogin(ctx context.Context, req *GoogleLoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	if s.google == nil {
		return nil, fmt.Errorf("%w: google sign-in is not configured", appErrors.ErrServiceUnavailable)
	}

	identity, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		logger.Warn("Google sign-in with invalid token",
			zap.Error(err),
			zap.String("event", "google_login_failed_invalid_token"),
		)
		return nil, appErrors.ErrInvalidToken
	}

	email := utils.SanitizeEmail(identity.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domainUser.ErrUserNotFound):
		user, err = s.provisionGoogleUser(ctx, email, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	res, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in with Google",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("event", "google_login_success"),
	)

	return res, nil
}

func (s *Service) provisionGoogleUser(ctx context.Context, email string, identity *google.Identity) (*domainUser.User, error) {
	password, err := utils.GenerateRandomString(generatedPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	base := utils.Slugify(identity.Name)
	if base == "" {
		base = utils.Slugify(strings.SplitN(email, "@", 2)[0])
	}

	var avatar *string
	if identity.Picture != "" {
		picture := identity.Picture
		avatar = &picture
	}

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		suffix, err := utils.GenerateRandomString(generatedSuffixLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate username: %w", err)
		}

		now := s.now()
		user := &domainUser.User{
			Username:     base + suffix,
			Email:        email,
			PasswordHash: hashedPassword,
			Role:         domainUser.RoleUser,
			Status:       domainUser.StatusActive,
			Avatar:       avatar,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err = s.userRepo.Create(ctx, user)
		if err == nil {
			logger.Info("User provisioned from Google sign-in",
				zap.String("user_id", user.ID.String()),
				zap.String("email", user.Email),
				zap.String("username", user.Username),
				zap.String("event", "google_user_created"),
			)
			return user, nil
		}
		if !errors.Is(err, domainUser.ErrUsernameTaken) {
			return nil, userUC.UserError(err)
		}
	}

	return nil, appErrors.ErrUsernameTaken
}

// RefreshToken mints a new access token from a refresh token.
func (s *Service) RefreshToken(_ context.Context, refreshToken string) (*RefreshResponse, error) {
	// Validate JWT token and mint a new access token
	access, claims, err := s.issuer.Refresh(refreshToken)
	if err != nil {
		logger.Warn("Token refresh attempt with invalid token",
			zap.String("event", "token_refresh_failed_invalid_token"),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Debug("Token refresh successfully",
		zap.String("user_id", claims.Subject),
		zap.String("event", "token_refresh_success"),
	)

	return &RefreshResponse{
		AccessToken: access,
		ExpiresAt:   claims.ExpiresAt.Unix(),
	}, nil
}

func (s *Service) issueSession(user *domainUser.User) (*AuthResponse, error) {
	id := token.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	access, accessClaims, err := s.issuer.IssueAccessToken(id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	refresh, refreshClaims, err := s.issuer.IssueRefreshToken(id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:             userUC.ToUserResponse(user),
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresAt:        accessClaims.ExpiresAt.Unix(),
		RefreshExpiresAt: refreshClaims.ExpiresAt.Unix(),
	}, nil
}
