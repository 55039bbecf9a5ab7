package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/internal/infrastructure/database"
	appErrors "fourwheeler-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	types []string
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, eventType, _ string, _ interface{}) error {
	p.types = append(p.types, eventType)
	return p.err
}

func setup(t *testing.T) (*Service, *database.Store, *fakePublisher) {
	t.Helper()
	store := database.NewMemory()
	events := &fakePublisher{}
	return NewService(store.TestDrives, store.Cars, events), store, events
}

func addCar(t *testing.T, store *database.Store, model string) *domainCar.Car {
	t.Helper()
	c := &domainCar.Car{Make: "Mazda", Model: model, Year: 2024, Price: 30000, Color: "Red"}
	c.ApplyDefaults()
	require.NoError(t, store.Cars.Create(context.Background(), c))
	return c
}

func TestBookTestDrive(t *testing.T) {
	svc, store, events := setup(t)
	ctx := context.Background()
	c := addCar(t, store, "CX-5")
	userID := uuid.New()
	when := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	res, err := svc.BookTestDrive(ctx, c.ID, &userID, &BookTestDriveRequest{
		Name:          "Sam Lee",
		Phone:         "+1 555 0100",
		Email:         "Sam@Example.com",
		PreferredDate: &when,
		Message:       "Weekend please",
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, res.CarID)
	assert.Equal(t, &userID, res.UserID)
	assert.Equal(t, "sam@example.com", res.Email)
	assert.Equal(t, []string{EventTestDriveBooked}, events.types)

	list, err := svc.ListTestDrives(ctx, &ListTestDrivesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestBookTestDriveAnonymousWithoutEmail(t *testing.T) {
	svc, store, _ := setup(t)
	c := addCar(t, store, "CX-5")

	res, err := svc.BookTestDrive(context.Background(), c.ID, nil, &BookTestDriveRequest{Name: "Sam", Phone: "5550100123"})
	require.NoError(t, err)
	assert.Nil(t, res.UserID)
	assert.Nil(t, res.PreferredDate)
}

func TestBookTestDriveRejections(t *testing.T) {
	svc, store, events := setup(t)
	ctx := context.Background()
	live := addCar(t, store, "CX-5")
	gone := addCar(t, store, "MX-5")
	require.NoError(t, store.Cars.SoftDelete(ctx, gone.ID, time.Now()))

	valid := func() *BookTestDriveRequest { return &BookTestDriveRequest{Name: "Sam", Phone: "5550100123"} }

	tests := []struct {
		name    string
		carID   uuid.UUID
		req     *BookTestDriveRequest
		wantErr error
	}{
		{"deleted car", gone.ID, valid(), appErrors.ErrCarNotFound},
		{"unknown car", uuid.New(), valid(), appErrors.ErrCarNotFound},
		{"missing phone", live.ID, &BookTestDriveRequest{Name: "Sam"}, nil},
		{"bad email", live.ID, &BookTestDriveRequest{Name: "Sam", Phone: "5550100123", Email: "nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BookTestDrive(ctx, tt.carID, nil, tt.req)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var appErr *appErrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.CodeValidation, appErr.Code)
		})
	}
	assert.Empty(t, events.types)
}

func TestBookTestDrivePublishFailureIsIgnored(t *testing.T) {
	svc, store, events := setup(t)
	events.err = errors.New("broker down")
	c := addCar(t, store, "CX-5")

	_, err := svc.BookTestDrive(context.Background(), c.ID, nil, &BookTestDriveRequest{Name: "Sam", Phone: "5550100123"})
	assert.NoError(t, err)
}

func TestListTestDrivesByCar(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	a := addCar(t, store, "CX-5")
	b := addCar(t, store, "CX-30")

	for _, id := range []uuid.UUID{a.ID, a.ID, b.ID} {
		_, err := svc.BookTestDrive(ctx, id, nil, &BookTestDriveRequest{Name: "Sam", Phone: "5550100123"})
		require.NoError(t, err)
	}

	res, err := svc.ListTestDrives(ctx, &ListTestDrivesQuery{CarID: a.ID.String(), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, 2, res.Pages)
	assert.Len(t, res.TestDrives, 1)

	_, err = svc.ListTestDrives(ctx, &ListTestDrivesQuery{CarID: "nope"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}
