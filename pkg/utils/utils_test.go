package utils

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP(6)
		require.NoError(t, err)
		assert.Len(t, otp, 6)
		assert.Regexp(t, `^[0-9]{6}$`, otp)
	}
}

func TestGenerateResetTokenIs256Bits(t *testing.T) {
	a, err := GenerateResetToken()
	require.NoError(t, err)
	b, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", h)
	assert.NotEqual(t, h, HashToken("abd"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "hunter2pass", false},
		{"too short", "abc12", true},
		{"no digit", "onlyletters", true},
		{"no letter", "1234567890", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "john@example.com", SanitizeEmail("  John@Example.COM "))
	assert.Equal(t, "john@example.com", SanitizeEmail("<b>john@example.com</b>"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "johndoe", Slugify("John Doe"))
	assert.False(t, strings.Contains(Slugify("A B C"), " "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a.b@example.org"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail(""))
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
	}{
		{"defaults", 0, 0, 1, 12},
		{"negative", -3, -1, 1, 12},
		{"kept", 3, 20, 3, 20},
		{"capped", 1, 500, 1, MaxLimit},
		{"huge page", math.MaxInt64/12 + 2, 12, MaxPage, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePage(tt.page, tt.limit, DefaultLimit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLim, limit)
		})
	}
}

func TestTotalPagesAndOffset(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 0, Offset(1, 12))
	assert.Equal(t, 24, Offset(3, 12))
	assert.Equal(t, (MaxPage-1)*MaxLimit, Offset(math.MaxInt64, math.MaxInt64))
}
