package car

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/internal/logger"
	appErrors "fourwheeler-backend/pkg/errors"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxImageSize = 5 << 20

	EventCarCreated = "car.created"
	EventCarUpdated = "car.updated"
	EventCarDeleted = "car.deleted"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Cache holds non-deleted cars for the public detail endpoint.
type Cache interface {
	Get(ctx context.Context, carID uuid.UUID) (*domainCar.Car, bool)
	Set(ctx context.Context, car *domainCar.Car)
	Invalidate(ctx context.Context, carID uuid.UUID)
}

type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, uuid.UUID) (*domainCar.Car, bool) { return nil, false }

func (noopCache) Set(context.Context, *domainCar.Car) {}

func (noopCache) Invalidate(context.Context, uuid.UUID) {}

// NoopCache disables caching.
var NoopCache Cache = noopCache{}

// Service implements catalog use cases
type Service struct {
	carRepo  domainCar.Repository
	cache    Cache
	uploader ImageUploader
	events   EventPublisher
	now      func() time.Time
}

// NewService creates a new car service. A nil uploader disables image
// uploads.
func NewService(carRepo domainCar.Repository, cache Cache, uploader ImageUploader, events EventPublisher) *Service {
	if cache == nil {
		cache = NoopCache
	}
	return &Service{
		carRepo:  carRepo,
		cache:    cache,
		uploader: uploader,
		events:   events,
		now:      time.Now,
	}
}

func (s *Service) ListCars(ctx context.Context, query *ListCarsQuery) (*CarListResponse, error) {
	return s.list(ctx, query, false)
}

// ListAllCars is the admin listing, soft-deleted cars included.
func (s *Service) ListAllCars(ctx context.Context, query *ListCarsQuery) (*CarListResponse, error) {
	return s.list(ctx, query, true)
}

func (s *Service) list(ctx context.Context, query *ListCarsQuery, includeDeleted bool) (*CarListResponse, error) {
	if query == nil {
		query = &ListCarsQuery{}
	}
	page, limit := utils.NormalizePage(query.Page, query.Limit, utils.DefaultLimit)

	filter := &domainCar.Filter{
		Search:         strings.TrimSpace(query.Search),
		Category:       strings.TrimSpace(query.Category),
		IncludeDeleted: includeDeleted,
		Page:           page,
		PageSize:       limit,
	}
	if query.Status != "" {
		status := domainCar.Status(strings.ToLower(strings.TrimSpace(query.Status)))
		if !domainCar.IsValidStatus(status) {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid status filter", appErrors.ErrInvalidInput)
		}
		filter.Status = &status
	}

	cars, total, err := s.carRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	return &CarListResponse{
		Page:  page,
		Pages: utils.TotalPages(total, limit),
		Total: total,
		Cars:  ToCarResponses(cars),
	}, nil
}

// GetCar returns a non-deleted car, reading through the cache.
func (s *Service) GetCar(ctx context.Context, carID uuid.UUID) (*CarResponse, error) {
	if c, ok := s.cache.Get(ctx, carID); ok {
		return ToCarResponse(c), nil
	}

	c, err := s.carRepo.GetByID(ctx, carID, false)
	if err != nil {
		return nil, carError(err)
	}
	s.cache.Set(ctx, c)

	return ToCarResponse(c), nil
}

// GetAnyCar returns a car even when it is soft-deleted.
func (s *Service) GetAnyCar(ctx context.Context, carID uuid.UUID) (*CarResponse, error) {
	c, err := s.carRepo.GetByID(ctx, carID, true)
	if err != nil {
		return nil, carError(err)
	}
	return ToCarResponse(c), nil
}

func (s *Service) CreateCar(ctx context.Context, req *CreateCarRequest) (*CarResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	now := s.now()
	c := &domainCar.Car{
		Make:         utils.SanitizeString(req.Make),
		Model:        utils.SanitizeString(req.Model),
		Year:         req.Year,
		Price:        req.Price,
		Color:        utils.SanitizeString(req.Color),
		Category:     utils.SanitizeString(req.Category),
		Seats:        req.Seats,
		Transmission: utils.SanitizeString(req.Transmission),
		FuelType:     utils.SanitizeString(req.FuelType),
		Engine:       utils.SanitizeString(req.Engine),
		Horsepower:   req.Horsepower,
		Description:  utils.SanitizeText(req.Description),
		Status:       domainCar.Status(req.Status),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	c.ApplyDefaults()

	if err := s.ensureUniqueMakeModel(ctx, uuid.Nil, c.Make, c.Model); err != nil {
		return nil, err
	}

	if err := s.carRepo.Create(ctx, c); err != nil {
		return nil, carError(err)
	}

	logger.Info("Car created successfully",
		zap.String("car_id", c.ID.String()),
		zap.String("make", c.Make),
		zap.String("model", c.Model),
		zap.String("event", "car_created"),
	)
	s.publish(ctx, EventCarCreated, c.ID, ToCarResponse(c))

	return ToCarResponse(c), nil
}

func (s *Service) UpdateCar(ctx context.Context, carID uuid.UUID, req *UpdateCarRequest) (*CarResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	c, err := s.carRepo.GetByID(ctx, carID, false)
	if err != nil {
		return nil, carError(err)
	}

	if req.Make != nil {
		c.Make = utils.SanitizeString(*req.Make)
	}
	if req.Model != nil {
		c.Model = utils.SanitizeString(*req.Model)
	}
	if req.Year != nil {
		c.Year = *req.Year
	}
	if req.Price != nil {
		c.Price = *req.Price
	}
	if req.Color != nil {
		c.Color = utils.SanitizeString(*req.Color)
	}
	if req.Category != nil {
		c.Category = utils.SanitizeString(*req.Category)
	}
	if req.Seats != nil {
		c.Seats = *req.Seats
	}
	if req.Transmission != nil {
		c.Transmission = utils.SanitizeString(*req.Transmission)
	}
	if req.FuelType != nil {
		c.FuelType = utils.SanitizeString(*req.FuelType)
	}
	if req.Engine != nil {
		c.Engine = utils.SanitizeString(*req.Engine)
	}
	if req.Horsepower != nil {
		c.Horsepower = req.Horsepower
	}
	if req.Description != nil {
		c.Description = utils.SanitizeText(*req.Description)
	}
	if req.Status != nil {
		c.Status = domainCar.Status(*req.Status)
	}

	if req.Make != nil || req.Model != nil {
		if err := s.ensureUniqueMakeModel(ctx, c.ID, c.Make, c.Model); err != nil {
			return nil, err
		}
	}

	c.UpdatedAt = s.now()
	if err := s.carRepo.Update(ctx, c); err != nil {
		return nil, carError(err)
	}
	s.cache.Invalidate(ctx, c.ID)

	logger.Info("Car updated successfully",
		zap.String("car_id", c.ID.String()),
		zap.String("event", "car_updated"),
	)
	s.publish(ctx, EventCarUpdated, c.ID, ToCarResponse(c))

	return ToCarResponse(c), nil
}

// DeleteCar soft-deletes a car.
func (s *Service) DeleteCar(ctx context.Context, carID uuid.UUID) error {
	if err := s.carRepo.SoftDelete(ctx, carID, s.now()); err != nil {
		return carError(err)
	}
	s.cache.Invalidate(ctx, carID)

	logger.Info("Car deleted successfully",
		zap.String("car_id", carID.String()),
		zap.String("event", "car_deleted"),
	)
	s.publish(ctx, EventCarDeleted, carID, map[string]string{"id": carID.String()})

	return nil
}

// RestoreCar clears the deleted flag unless another live car took its make
// and model in the meantime.
func (s *Service) RestoreCar(ctx context.Context, carID uuid.UUID) (*CarResponse, error) {
	c, err := s.carRepo.GetByID(ctx, carID, true)
	if err != nil {
		return nil, carError(err)
	}
	if !c.Deleted {
		return ToCarResponse(c), nil
	}

	if err := s.ensureUniqueMakeModel(ctx, c.ID, c.Make, c.Model); err != nil {
		return nil, err
	}
	if err := s.carRepo.Restore(ctx, carID); err != nil {
		return nil, carError(err)
	}
	s.cache.Invalidate(ctx, carID)

	c.Deleted = false
	c.DeletedAt = nil

	logger.Info("Car restored successfully",
		zap.String("car_id", carID.String()),
		zap.String("event", "car_restored"),
	)

	return ToCarResponse(c), nil
}

// UploadImages stores every file with the configured uploader and appends
// the resulting URLs in order.
func (s *Service) UploadImages(ctx context.Context, carID uuid.UUID, files []ImageFile) (*CarResponse, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", appErrors.ErrServiceUnavailable)
	}
	if len(files) == 0 {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "At least one image is required", appErrors.ErrInvalidInput)
	}
	for _, f := range files {
		if !allowedImageTypes[strings.ToLower(f.ContentType)] {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidInput,
				fmt.Sprintf("%s: only jpeg, png and webp images are allowed", f.Filename), appErrors.ErrInvalidInput)
		}
		if f.Size > MaxImageSize {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidInput,
				fmt.Sprintf("%s: image exceeds 5 MB", f.Filename), appErrors.ErrInvalidInput)
		}
	}

	if _, err := s.carRepo.GetByID(ctx, carID, false); err != nil {
		return nil, carError(err)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.uploader.Upload(ctx, f.Filename, f.ContentType, f.Body)
		if err != nil {
			logger.Error("Failed to upload car image",
				zap.String("car_id", carID.String()),
				zap.String("filename", f.Filename),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: image upload failed", appErrors.ErrUpstream)
		}
		urls = append(urls, url)
	}

	if err := s.carRepo.AppendImages(ctx, carID, urls); err != nil {
		return nil, carError(err)
	}
	s.cache.Invalidate(ctx, carID)

	logger.Info("Car images uploaded",
		zap.String("car_id", carID.String()),
		zap.Int("count", len(urls)),
		zap.String("event", "car_images_uploaded"),
	)

	return s.GetAnyCar(ctx, carID)
}

func (s *Service) ensureUniqueMakeModel(ctx context.Context, selfID uuid.UUID, carMake, model string) error {
	existing, err := s.carRepo.FindActiveByMakeModel(ctx, carMake, model)
	if err != nil {
		if errors.Is(err, domainCar.ErrCarNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check make and model: %w", err)
	}
	if existing.ID == selfID {
		return nil
	}

	logger.Warn("Car make and model already in use",
		zap.String("make", carMake),
		zap.String("model", model),
		zap.String("existing_car_id", existing.ID.String()),
		zap.String("event", "car_conflict"),
	)
	return appErrors.ErrCarAlreadyExists
}

func (s *Service) publish(ctx context.Context, eventType string, carID uuid.UUID, data interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, carID.String(), data); err != nil {
		logger.Warn("Failed to publish car event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

func carError(err error) error {
	switch {
	case errors.Is(err, domainCar.ErrCarNotFound):
		return appErrors.ErrCarNotFound
	case errors.Is(err, domainCar.ErrCarAlreadyExists):
		return appErrors.ErrCarAlreadyExists
	}
	return err
}
