//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"fourwheeler-backend/internal/config"
	domainCar "fourwheeler-backend/internal/domain/car"
	domainUser "fourwheeler-backend/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to the database named by TEST_DB_* variables, for
// example a throwaway container started with
// docker run -e POSTGRES_PASSWORD=postgres -p 5432:5432 postgres:16.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set")
	}

	getenv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "production"},
		Database: config.DatabaseConfig{
			Driver:         config.DriverPostgres,
			Host:           host,
			Port:           getenv("TEST_DB_PORT", "5432"),
			User:           getenv("TEST_DB_USER", "postgres"),
			Password:       getenv("TEST_DB_PASSWORD", "postgres"),
			DBName:         getenv("TEST_DB_NAME", "postgres"),
			SSLMode:        getenv("TEST_DB_SSLMODE", "disable"),
			ConnectTimeout: 5 * time.Second,
		},
	}

	db, err := NewDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPasswordResetRepositoryIntegration(t *testing.T) {
	db := openTestDB(t)
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	email := uuid.NewString() + "@example.com"

	first := &domainUser.PasswordResetRequest{Email: email, OTP: "111111", ExpireAt: now.Add(5 * time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.InvalidatePending(ctx, email, now))

	found, err := repo.FindByOTP(ctx, email, "111111")
	require.NoError(t, err)
	require.NotNil(t, found.UsedAt)

	second := &domainUser.PasswordResetRequest{Email: email, OTP: "222222", ExpireAt: now.Add(5 * time.Minute)}
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.MarkOTPVerified(ctx, second.ID, "hash-"+email, now.Add(10*time.Minute), now))
	assert.ErrorIs(t, repo.MarkOTPVerified(ctx, second.ID, "other", now.Add(10*time.Minute), now), domainUser.ErrResetRequestUsed)

	require.NoError(t, repo.MarkUsed(ctx, second.ID, now))
	assert.ErrorIs(t, repo.MarkUsed(ctx, second.ID, now), domainUser.ErrResetRequestUsed)
	assert.ErrorIs(t, repo.MarkUsed(ctx, uuid.New(), now), domainUser.ErrResetRequestNotFound)

	require.NoError(t, repo.ReleaseUsed(ctx, second.ID, now))
	require.NoError(t, repo.MarkUsed(ctx, second.ID, now))

	deleted, err := repo.DeleteExpired(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(2))

	_, err = repo.FindByResetTokenHash(ctx, "hash-"+email)
	assert.ErrorIs(t, err, domainUser.ErrResetRequestNotFound)
}

func TestUserRepositoryIntegration(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	u := &domainUser.User{Username: "dana" + suffix, Email: "dana" + suffix + "@example.com", Role: domainUser.RoleUser, Status: domainUser.StatusActive}
	require.NoError(t, repo.Create(ctx, u))

	dupEmail := &domainUser.User{Username: "other" + suffix, Email: u.Email, Role: domainUser.RoleUser, Status: domainUser.StatusActive}
	assert.ErrorIs(t, repo.Create(ctx, dupEmail), domainUser.ErrEmailTaken)

	dupName := &domainUser.User{Username: u.Username, Email: "other" + suffix + "@example.com", Role: domainUser.RoleUser, Status: domainUser.StatusActive}
	assert.ErrorIs(t, repo.Create(ctx, dupName), domainUser.ErrUsernameTaken)

	carID := uuid.New()
	require.NoError(t, repo.AddFavorite(ctx, u.ID, carID))
	require.NoError(t, repo.AddFavorite(ctx, u.ID, carID))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{carID}, got.Favorites)

	require.NoError(t, repo.RemoveFavorite(ctx, u.ID, carID))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Favorites)

	assert.ErrorIs(t, repo.AddFavorite(ctx, uuid.New(), carID), domainUser.ErrUserNotFound)
}

func TestCarRepositoryIntegration(t *testing.T) {
	db := openTestDB(t)
	repo := NewCarRepository(db)
	ctx := context.Background()
	model := "Z" + uuid.NewString()[:8]

	newCar := func() *domainCar.Car {
		return &domainCar.Car{Make: "Mazda", Model: model, Year: 2023, Price: 30000, Status: domainCar.StatusAvailable}
	}

	original := newCar()
	require.NoError(t, repo.Create(ctx, original))
	assert.ErrorIs(t, repo.Create(ctx, newCar()), domainCar.ErrCarAlreadyExists)

	// A soft-deleted car frees its make and model.
	require.NoError(t, repo.SoftDelete(ctx, original.ID, time.Now()))
	replacement := newCar()
	require.NoError(t, repo.Create(ctx, replacement))

	assert.ErrorIs(t, repo.Restore(ctx, original.ID), domainCar.ErrCarAlreadyExists)
	assert.ErrorIs(t, repo.Restore(ctx, uuid.New()), domainCar.ErrCarNotFound)
}
