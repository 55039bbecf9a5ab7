// Package token issues and verifies the HS256 access and refresh tokens used
// for API sessions.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	appErrors "fourwheeler-backend/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrMissingSigningKey = errors.New("token signing key is not configured")
	ErrExpiredToken      = errors.New("token has expired")
	ErrInvalidSignature  = errors.New("token signature is invalid")
	ErrWrongTokenType    = errors.New("token type mismatch")
)

type Config struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Identity is the subject a token is issued for.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Role     string
}

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	Type     Type   `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. It carries the same
// identity as the access token so a new access token can be minted from it
// alone.
type RefreshClaims struct {
	Type     Type   `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) Identity() (Identity, error) {
	return identityFrom(c.Subject, c.Username, c.Email, c.Role)
}

func (c *RefreshClaims) Identity() (Identity, error) {
	return identityFrom(c.Subject, c.Username, c.Email, c.Role)
}

type Issuer struct {
	cfg Config
	now func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &Issuer{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	return &Issuer{cfg: i.cfg, now: now}
}

func (i *Issuer) AccessTTL() time.Duration  { return i.cfg.AccessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.cfg.RefreshTTL }

func (i *Issuer) IssueAccessToken(id Identity) (string, *AccessClaims, error) {
	if i.cfg.AccessSecret == "" {
		return "", nil, ErrMissingSigningKey
	}

	claims := &AccessClaims{
		Type:             TypeAccess,
		Username:         id.Username,
		Email:            id.Email,
		Role:             roleOrDefault(id.Role),
		RegisteredClaims: i.registered(id, i.cfg.AccessTTL),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.AccessSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, claims, nil
}

func (i *Issuer) IssueRefreshToken(id Identity) (string, *RefreshClaims, error) {
	secret := i.refreshSecret()
	if secret == "" {
		return "", nil, ErrMissingSigningKey
	}

	claims := &RefreshClaims{
		Type:             TypeRefresh,
		Username:         id.Username,
		Email:            id.Email,
		Role:             roleOrDefault(id.Role),
		RegisteredClaims: i.registered(id, i.cfg.RefreshTTL),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, claims, nil
}

func (i *Issuer) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(tokenString, claims, i.cfg.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Type != TypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (i *Issuer) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(tokenString, claims, i.refreshSecret()); err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// Refresh mints a new access token from a valid refresh token without any
// storage lookup.
func (i *Issuer) Refresh(refreshToken string) (string, *AccessClaims, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", nil, fmt.Errorf("%w: refresh token required", appErrors.ErrUnauthorized)
	}

	claims, err := i.VerifyRefresh(refreshToken)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", appErrors.ErrUnauthorized, err)
	}

	id, err := claims.Identity()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", appErrors.ErrUnauthorized, err)
	}

	return i.IssueAccessToken(id)
}

func (i *Issuer) parse(tokenString string, claims jwt.Claims, secret string) error {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ErrInvalidSignature
	}
	if secret == "" {
		return ErrMissingSigningKey
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.cfg.Issuer))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err == nil {
		return nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
}

func (i *Issuer) registered(id Identity, ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Issuer:    i.cfg.Issuer,
		Subject:   id.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func (i *Issuer) refreshSecret() string {
	if i.cfg.RefreshSecret != "" {
		return i.cfg.RefreshSecret
	}
	return i.cfg.AccessSecret
}

func roleOrDefault(role string) string {
	if role == "" {
		return "user"
	}
	return role
}

func identityFrom(subject, username, email, role string) (Identity, error) {
	userID, err := uuid.Parse(subject)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid subject: %w", err)
	}
	return Identity{UserID: userID, Username: username, Email: email, Role: role}, nil
}
