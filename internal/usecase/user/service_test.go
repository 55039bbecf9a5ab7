package user

import (
	"context"
	"errors"
	"testing"

	domainCar "fourwheeler-backend/internal/domain/car"
	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/infrastructure/database"
	appErrors "fourwheeler-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *Service
	store *database.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := database.NewMemory()
	return &fixture{svc: NewService(store.Users, store.Cars), store: store}
}

func (f *fixture) user(t *testing.T, username string) *domainUser.User {
	t.Helper()
	u := &domainUser.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         domainUser.RoleUser,
		Status:       domainUser.StatusActive,
	}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) car(t *testing.T, model string) *domainCar.Car {
	t.Helper()
	c := &domainCar.Car{Make: "Toyota", Model: model, Year: 2022, Price: 20000, Color: "White"}
	c.ApplyDefaults()
	require.NoError(t, f.store.Cars.Create(context.Background(), c))
	return c
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")
	c := f.car(t, "Camry")

	require.NoError(t, f.svc.AddFavorite(ctx, u.ID, c.ID))
	require.NoError(t, f.svc.AddFavorite(ctx, u.ID, c.ID))

	profile, err := f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID}, profile.Favorites)

	require.NoError(t, f.svc.RemoveFavorite(ctx, u.ID, c.ID))
	require.NoError(t, f.svc.RemoveFavorite(ctx, u.ID, c.ID))

	profile, err = f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Favorites)
}

func TestAddFavoriteRequiresLiveCar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")
	c := f.car(t, "Camry")
	require.NoError(t, f.store.Cars.SoftDelete(ctx, c.ID, c.CreatedAt))

	assert.ErrorIs(t, f.svc.AddFavorite(ctx, u.ID, c.ID), appErrors.ErrCarNotFound)
	assert.ErrorIs(t, f.svc.AddFavorite(ctx, u.ID, uuid.New()), appErrors.ErrCarNotFound)
}

func TestListFavoritesKeepsOrderAndSkipsDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")
	first := f.car(t, "Camry")
	second := f.car(t, "Corolla")
	third := f.car(t, "Prius")

	for _, c := range []*domainCar.Car{second, first, third} {
		require.NoError(t, f.svc.AddFavorite(ctx, u.ID, c.ID))
	}
	require.NoError(t, f.store.Cars.SoftDelete(ctx, third.ID, third.CreatedAt))

	favorites, err := f.svc.ListFavorites(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, second.ID, favorites[0].ID)
	assert.Equal(t, first.ID, favorites[1].ID)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	phone := " +1 (555) 010-9999 "
	avatar := "https://example.com/a.png"
	res, err := f.svc.UpdateProfile(ctx, u.ID, &UpdateProfileRequest{Phone: &phone, Avatar: &avatar})
	require.NoError(t, err)
	require.NotNil(t, res.Phone)
	assert.Equal(t, "+1 (555) 010-9999", *res.Phone)
	assert.Equal(t, avatar, *res.Avatar)

	bad := "not-a-url"
	_, err = f.svc.UpdateProfile(ctx, u.ID, &UpdateProfileRequest{Avatar: &bad})
	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeValidation, appErr.Code)
}

func TestDeleteUserIsSoft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	f.user(t, "bob")

	require.NoError(t, f.svc.DeleteUser(ctx, alice.ID))
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, alice.ID), appErrors.ErrUserNotFound)

	_, err := f.svc.GetProfile(ctx, alice.ID)
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)

	active, err := f.svc.ListUsers(ctx, &ListUsersQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.Total)

	all, err := f.svc.ListUsers(ctx, &ListUsersQuery{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, 1, all.Pages)
}

func TestUserErrorMapping(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{domainUser.ErrUserNotFound, appErrors.ErrUserNotFound},
		{domainUser.ErrUsernameTaken, appErrors.ErrUsernameTaken},
		{domainUser.ErrEmailTaken, appErrors.ErrEmailTaken},
		{domainUser.ErrUserAlreadyExists, appErrors.ErrUserAlreadyExists},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, UserError(tt.in), tt.want)
	}

	other := errors.New("boom")
	assert.Equal(t, other, UserError(other))
}
