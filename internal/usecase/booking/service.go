package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainBooking "fourwheeler-backend/internal/domain/booking"
	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/internal/logger"
	appErrors "fourwheeler-backend/pkg/errors"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventTestDriveBooked = "test_drive.booked"

type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

// Service implements test drive booking use cases
type Service struct {
	bookingRepo domainBooking.Repository
	carRepo     domainCar.Repository
	events      EventPublisher
	now         func() time.Time
}

func NewService(bookingRepo domainBooking.Repository, carRepo domainCar.Repository, events EventPublisher) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		events:      events,
		now:         time.Now,
	}
}

// BookTestDrive records a request for a live car. userID is set when the
// caller is signed in.
func (s *Service) BookTestDrive(ctx context.Context, carID uuid.UUID, userID *uuid.UUID, req *BookTestDriveRequest) (*TestDriveResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Phone = utils.SanitizePhone(req.Phone)
	req.Email = utils.SanitizeEmail(req.Email)
	req.Message = utils.SanitizeText(req.Message)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	if _, err := s.carRepo.GetByID(ctx, carID, false); err != nil {
		if errors.Is(err, domainCar.ErrCarNotFound) {
			return nil, appErrors.ErrCarNotFound
		}
		return nil, err
	}

	td := &domainBooking.TestDrive{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		CarID:         carID,
		UserID:        userID,
		PreferredDate: req.PreferredDate,
		Message:       req.Message,
		CreatedAt:     s.now(),
	}
	if err := s.bookingRepo.Create(ctx, td); err != nil {
		return nil, fmt.Errorf("failed to create test drive: %w", err)
	}

	logger.Info("Test drive booked",
		zap.String("test_drive_id", td.ID.String()),
		zap.String("car_id", carID.String()),
		zap.Bool("authenticated", userID != nil),
		zap.String("event", "test_drive_booked"),
	)

	res := ToTestDriveResponse(td)
	if s.events != nil {
		if err := s.events.Publish(ctx, EventTestDriveBooked, carID.String(), res); err != nil {
			logger.Warn("Failed to publish test drive event",
				zap.String("test_drive_id", td.ID.String()),
				zap.Error(err),
			)
		}
	}

	return res, nil
}

func (s *Service) ListTestDrives(ctx context.Context, query *ListTestDrivesQuery) (*TestDriveListResponse, error) {
	if query == nil {
		query = &ListTestDrivesQuery{}
	}
	page, limit := utils.NormalizePage(query.Page, query.Limit, utils.DefaultLimit)

	filter := &domainBooking.Filter{Page: page, PageSize: limit}
	if query.CarID != "" {
		carID, err := uuid.Parse(query.CarID)
		if err != nil {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid car_id", appErrors.ErrInvalidInput)
		}
		filter.CarID = &carID
	}

	items, total, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list test drives: %w", err)
	}

	out := make([]*TestDriveResponse, 0, len(items))
	for _, td := range items {
		out = append(out, ToTestDriveResponse(td))
	}

	return &TestDriveListResponse{
		Page:       page,
		Pages:      utils.TotalPages(total, limit),
		Total:      total,
		TestDrives: out,
	}, nil
}
