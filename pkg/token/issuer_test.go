package token

import (
	"errors"
	"testing"
	"time"

	appErrors "fourwheeler-backend/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(now time.Time) *Issuer {
	return NewIssuer(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "fourwheeler-test",
	}).WithClock(func() time.Time { return now })
}

func testIdentity() Identity {
	return Identity{
		UserID:   uuid.New(),
		Username: "johndoe",
		Email:    "john@example.com",
		Role:     "admin",
	}
}

func TestIssueAccessTokenCarriesIdentity(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(now)
	id := testIdentity()

	signed, issued, err := issuer.IssueAccessToken(id)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := issuer.VerifyAccess(signed)
	require.NoError(t, err)

	assert.Equal(t, TypeAccess, claims.Type)
	assert.Equal(t, id.UserID.String(), claims.Subject)
	assert.Equal(t, "johndoe", claims.Username)
	assert.Equal(t, "john@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "fourwheeler-test", claims.Issuer)
	assert.WithinDuration(t, now.Add(DefaultAccessTTL), claims.ExpiresAt.Time, time.Second)
}

func TestIssueAccessTokenDefaultsRole(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	id := testIdentity()
	id.Role = ""

	signed, _, err := issuer.IssueAccessToken(id)
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestIssueWithoutKeyFails(t *testing.T) {
	issuer := NewIssuer(Config{})

	_, _, err := issuer.IssueAccessToken(testIdentity())
	assert.ErrorIs(t, err, ErrMissingSigningKey)

	_, _, err = issuer.IssueRefreshToken(testIdentity())
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestVerifyExpiredAccessToken(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	signed, _, err := newTestIssuer(issuedAt).IssueAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = newTestIssuer(issuedAt.Add(16 * time.Minute)).VerifyAccess(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	signed, _, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	other := NewIssuer(Config{AccessSecret: "someone-else", Issuer: "fourwheeler-test"})
	_, err = other.VerifyAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = issuer.VerifyAccess(signed + "x")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = issuer.VerifyAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = issuer.VerifyAccess("")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	claims := &AccessClaims{
		Type: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fourwheeler-test",
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	issuer := NewIssuer(Config{AccessSecret: "shared", Issuer: "fourwheeler-test"})

	access, _, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)
	refresh, _, err := issuer.IssueRefreshToken(testIdentity())
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = issuer.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshTokenLifetime(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(now)

	signed, _, err := issuer.IssueRefreshToken(testIdentity())
	require.NoError(t, err)

	claims, err := newTestIssuer(now.Add(6 * 24 * time.Hour)).VerifyRefresh(signed)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.Type)

	_, err = newTestIssuer(now.Add(8 * 24 * time.Hour)).VerifyRefresh(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshReissuesAccessToken(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(now)
	id := testIdentity()

	refresh, _, err := issuer.IssueRefreshToken(id)
	require.NoError(t, err)

	later := newTestIssuer(now.Add(time.Hour))
	access, claims, err := later.Refresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, id.UserID.String(), claims.Subject)

	verified, err := later.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, id.Email, verified.Email)
}

func TestRefreshFailures(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(now)

	access, _, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)
	refresh, _, err := issuer.IssueRefreshToken(testIdentity())
	require.NoError(t, err)

	tests := []struct {
		name   string
		issuer *Issuer
		token  string
	}{
		{"missing", issuer, ""},
		{"garbage", issuer, "abc.def.ghi"},
		{"access token", issuer, access},
		{"expired", newTestIssuer(now.Add(30 * 24 * time.Hour)), refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.issuer.Refresh(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}
