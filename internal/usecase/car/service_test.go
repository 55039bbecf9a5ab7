package car

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/internal/infrastructure/database"
	appErrors "fourwheeler-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	items       map[uuid.UUID]*domainCar.Car
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[uuid.UUID]*domainCar.Car{}}
}

func (c *fakeCache) Get(_ context.Context, id uuid.UUID) (*domainCar.Car, bool) {
	car, ok := c.items[id]
	return car, ok
}

func (c *fakeCache) Set(_ context.Context, car *domainCar.Car) { c.items[car.ID] = car }

func (c *fakeCache) Invalidate(_ context.Context, id uuid.UUID) {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
}

type fakeUploader struct {
	uploaded []string
	err      error
}

func (u *fakeUploader) Upload(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	u.uploaded = append(u.uploaded, filename)
	return "https://cdn.example.com/" + filename, nil
}

type recordedEvent struct {
	Type string
	Key  string
}

type fakePublisher struct {
	events []recordedEvent
}

func (p *fakePublisher) Publish(_ context.Context, eventType, key string, _ interface{}) error {
	p.events = append(p.events, recordedEvent{Type: eventType, Key: key})
	return nil
}

type fixture struct {
	svc      *Service
	cache    *fakeCache
	uploader *fakeUploader
	events   *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := database.NewMemory()
	f := &fixture{cache: newFakeCache(), uploader: &fakeUploader{}, events: &fakePublisher{}}
	f.svc = NewService(store.Cars, f.cache, f.uploader, f.events)
	return f
}

func createReq(carMake, model string) *CreateCarRequest {
	return &CreateCarRequest{Make: carMake, Model: model, Year: 2023, Price: 25000, Color: "Blue"}
}

func mustCreate(t *testing.T, svc *Service, carMake, model string) *CarResponse {
	t.Helper()
	c, err := svc.CreateCar(context.Background(), createReq(carMake, model))
	require.NoError(t, err)
	return c
}

func TestCreateCarAppliesDefaults(t *testing.T) {
	f := newFixture(t)

	c := mustCreate(t, f.svc, "Toyota", "Camry")

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "Sedan", c.Category)
	assert.Equal(t, 4, c.Seats)
	assert.Equal(t, "Automatic", c.Transmission)
	assert.Equal(t, "Gasoline", c.FuelType)
	assert.Equal(t, "available", c.Status)
	assert.Equal(t, []string{}, c.Images)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, recordedEvent{Type: EventCarCreated, Key: c.ID.String()}, f.events.events[0])
}

func TestCreateCarValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  *CreateCarRequest
	}{
		{"missing make", &CreateCarRequest{Model: "Camry", Year: 2023, Price: 1, Color: "Red"}},
		{"zero price", &CreateCarRequest{Make: "Toyota", Model: "Camry", Year: 2023, Color: "Red"}},
		{"bad status", &CreateCarRequest{Make: "Toyota", Model: "Camry", Year: 2023, Price: 1, Color: "Red", Status: "parked"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateCar(context.Background(), tt.req)
			var appErr *appErrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.CodeValidation, appErr.Code)
		})
	}
}

func TestDuplicateMakeModelConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := mustCreate(t, f.svc, "Toyota", "Camry")

	_, err := f.svc.CreateCar(ctx, createReq("Toyota", "Camry"))
	assert.ErrorIs(t, err, appErrors.ErrCarAlreadyExists)

	other := mustCreate(t, f.svc, "Honda", "Civic")
	camry := "Camry"
	toyota := "Toyota"
	_, err = f.svc.UpdateCar(ctx, other.ID, &UpdateCarRequest{Make: &toyota, Model: &camry})
	assert.ErrorIs(t, err, appErrors.ErrCarAlreadyExists)

	// Updating a car with its own make and model is not a conflict.
	_, err = f.svc.UpdateCar(ctx, first.ID, &UpdateCarRequest{Make: &toyota, Model: &camry})
	assert.NoError(t, err)

	// A deleted car frees its make and model.
	require.NoError(t, f.svc.DeleteCar(ctx, first.ID))
	replacement := mustCreate(t, f.svc, "Toyota", "Camry")

	// Restoring the original would now duplicate the replacement.
	_, err = f.svc.RestoreCar(ctx, first.ID)
	assert.ErrorIs(t, err, appErrors.ErrCarAlreadyExists)

	require.NoError(t, f.svc.DeleteCar(ctx, replacement.ID))
	restored, err := f.svc.RestoreCar(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
}

func TestSoftDeletedCarsHiddenFromPublicListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kept := mustCreate(t, f.svc, "Toyota", "Camry")
	gone := mustCreate(t, f.svc, "Honda", "Civic")
	require.NoError(t, f.svc.DeleteCar(ctx, gone.ID))

	public, err := f.svc.ListCars(ctx, &ListCarsQuery{})
	require.NoError(t, err)
	require.Len(t, public.Cars, 1)
	assert.Equal(t, kept.ID, public.Cars[0].ID)
	assert.Equal(t, int64(1), public.Total)

	admin, err := f.svc.ListAllCars(ctx, &ListCarsQuery{})
	require.NoError(t, err)
	assert.Len(t, admin.Cars, 2)

	_, err = f.svc.GetCar(ctx, gone.ID)
	assert.ErrorIs(t, err, appErrors.ErrCarNotFound)

	detail, err := f.svc.GetAnyCar(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, detail.Deleted)
	assert.NotNil(t, detail.DeletedAt)
}

func TestListCarsFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustCreate(t, f.svc, "Toyota", "Camry")
	mustCreate(t, f.svc, "Toyota", "Corolla")
	suv := createReq("Ford", "Explorer")
	suv.Category = "SUV"
	suv.Status = "sold"
	_, err := f.svc.CreateCar(ctx, suv)
	require.NoError(t, err)

	tests := []struct {
		name      string
		query     *ListCarsQuery
		wantTotal int64
		wantLen   int
		wantPages int
	}{
		{"all", &ListCarsQuery{}, 3, 3, 1},
		{"search is case insensitive", &ListCarsQuery{Search: "toy"}, 2, 2, 1},
		{"search matches model", &ListCarsQuery{Search: "EXPLO"}, 1, 1, 1},
		{"category", &ListCarsQuery{Category: "suv"}, 1, 1, 1},
		{"status", &ListCarsQuery{Status: "sold"}, 1, 1, 1},
		{"page size", &ListCarsQuery{Page: 2, Limit: 2}, 3, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.ListCars(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Len(t, res.Cars, tt.wantLen)
			assert.Equal(t, tt.wantPages, res.Pages)
		})
	}

	_, err = f.svc.ListCars(ctx, &ListCarsQuery{Status: "parked"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestListCarsBeyondLastPage(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f.svc, "Toyota", "Camry")

	for _, p := range []int{5, math.MaxInt64/12 + 2, math.MaxInt64} {
		var res *CarListResponse
		require.NotPanics(t, func() {
			var err error
			res, err = f.svc.ListCars(context.Background(), &ListCarsQuery{Page: p})
			require.NoError(t, err)
		})
		assert.Empty(t, res.Cars)
		assert.EqualValues(t, 1, res.Total)
	}
}

func TestGetCarReadsThroughCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := mustCreate(t, f.svc, "Toyota", "Camry")

	_, err := f.svc.GetCar(ctx, c.ID)
	require.NoError(t, err)
	require.Contains(t, f.cache.items, c.ID)

	// Served from cache even though the entry was changed behind the store.
	f.cache.items[c.ID].Color = "Cached"
	got, err := f.svc.GetCar(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", got.Color)

	red := "Red"
	_, err = f.svc.UpdateCar(ctx, c.ID, &UpdateCarRequest{Color: &red})
	require.NoError(t, err)
	assert.Contains(t, f.cache.invalidated, c.ID)

	got, err = f.svc.GetCar(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red", got.Color)
}

func TestUploadImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := mustCreate(t, f.svc, "Toyota", "Camry")

	files := []ImageFile{
		{Filename: "front.jpg", ContentType: "image/jpeg", Size: 10, Body: strings.NewReader("jpeg")},
		{Filename: "side.webp", ContentType: "image/webp", Size: 10, Body: strings.NewReader("webp")},
	}

	updated, err := f.svc.UploadImages(ctx, c.ID, files)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/front.jpg",
		"https://cdn.example.com/side.webp",
	}, updated.Images)
	assert.Contains(t, f.cache.invalidated, c.ID)
}

func TestUploadImagesRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		files   []ImageFile
		setup   func(f *fixture)
		carID   func(c *CarResponse) uuid.UUID
		wantErr error
	}{
		{
			name:    "no files",
			wantErr: appErrors.ErrInvalidInput,
		},
		{
			name:    "unsupported type",
			files:   []ImageFile{{Filename: "doc.pdf", ContentType: "application/pdf", Size: 1, Body: strings.NewReader("x")}},
			wantErr: appErrors.ErrInvalidInput,
		},
		{
			name:    "too large",
			files:   []ImageFile{{Filename: "big.png", ContentType: "image/png", Size: MaxImageSize + 1, Body: strings.NewReader("x")}},
			wantErr: appErrors.ErrInvalidInput,
		},
		{
			name:    "unknown car",
			files:   []ImageFile{{Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")}},
			carID:   func(*CarResponse) uuid.UUID { return uuid.New() },
			wantErr: appErrors.ErrCarNotFound,
		},
		{
			name:    "storage not configured",
			files:   []ImageFile{{Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")}},
			setup:   func(f *fixture) { f.svc.uploader = nil },
			wantErr: appErrors.ErrServiceUnavailable,
		},
		{
			name:    "upload failure",
			files:   []ImageFile{{Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")}},
			setup:   func(f *fixture) { f.uploader.err = errors.New("boom") },
			wantErr: appErrors.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			c := mustCreate(t, f.svc, "Toyota", "Camry")
			if tt.setup != nil {
				tt.setup(f)
			}
			id := c.ID
			if tt.carID != nil {
				id = tt.carID(c)
			}

			_, err := f.svc.UploadImages(ctx, id, tt.files)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteUnknownCar(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.DeleteCar(context.Background(), uuid.New()), appErrors.ErrCarNotFound)
}
