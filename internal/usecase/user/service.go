package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"
	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/logger"
	carUC "fourwheeler-backend/internal/usecase/car"
	appErrors "fourwheeler-backend/pkg/errors"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements profile, favorites and user administration use cases
type Service struct {
	userRepo domainUser.Repository
	carRepo  domainCar.Repository
	now      func() time.Time
}

// NewService creates a new user service
func NewService(userRepo domainUser.Repository, carRepo domainCar.Repository) *Service {
	return &Service{
		userRepo: userRepo,
		carRepo:  carRepo,
		now:      time.Now,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, UserError(err)
	}

	return ToUserResponse(user), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if req.Phone != nil {
		phone := utils.SanitizePhone(*req.Phone)
		req.Phone = &phone
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, UserError(err)
	}

	// Apply only the fields that were sent
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, UserError(err)
	}

	logger.Info("User profile updated",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "profile_updated"),
	)

	return ToUserResponse(user), nil
}

// ListFavorites returns the user's favorite cars in the order they were
// added, skipping cars that have since been deleted.
func (s *Service) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*carUC.CarResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, UserError(err)
	}
	if len(user.Favorites) == 0 {
		return []*carUC.CarResponse{}, nil
	}

	// Resolve cars in one query, then restore favorite order
	cars, err := s.carRepo.GetByIDs(ctx, user.Favorites)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite cars: %w", err)
	}

	byID := make(map[uuid.UUID]*domainCar.Car, len(cars))
	for _, c := range cars {
		byID[c.ID] = c
	}

	out := make([]*carUC.CarResponse, 0, len(cars))
	for _, id := range user.Favorites {
		if c, ok := byID[id]; ok {
			out = append(out, carUC.ToCarResponse(c))
		}
	}
	return out, nil
}

// AddFavorite is idempotent; the car must exist and not be deleted.
func (s *Service) AddFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	// Check if car exists
	if _, err := s.carRepo.GetByID(ctx, carID, false); err != nil {
		if errors.Is(err, domainCar.ErrCarNotFound) {
			return appErrors.ErrCarNotFound
		}
		return err
	}

	if err := s.userRepo.AddFavorite(ctx, userID, carID); err != nil {
		return UserError(err)
	}

	logger.Debug("Favorite added",
		zap.String("user_id", userID.String()),
		zap.String("car_id", carID.String()),
		zap.String("event", "favorite_added"),
	)
	return nil
}

// RemoveFavorite is idempotent.
func (s *Service) RemoveFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	if err := s.userRepo.RemoveFavorite(ctx, userID, carID); err != nil {
		return UserError(err)
	}

	logger.Debug("Favorite removed",
		zap.String("user_id", userID.String()),
		zap.String("car_id", carID.String()),
		zap.String("event", "favorite_removed"),
	)
	return nil
}

func (s *Service) ListUsers(ctx context.Context, query *ListUsersQuery) (*UserListResponse, error) {
	if query == nil {
		query = &ListUsersQuery{}
	}
	page, limit := utils.NormalizePage(query.Page, query.Limit, utils.DefaultLimit)

	users, total, err := s.userRepo.List(ctx, &domainUser.Filter{
		IncludeDeleted: query.IncludeDeleted,
		Page:           page,
		PageSize:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}

	return &UserListResponse{
		Page:  page,
		Pages: utils.TotalPages(total, limit),
		Total: total,
		Users: responses,
	}, nil
}

// DeleteUser soft-deletes an account.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SoftDelete(ctx, userID, s.now()); err != nil {
		return UserError(err)
	}

	logger.Info("User deleted successfully",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_deleted"),
	)

	return nil
}

// UserError translates repository errors into the application taxonomy.
func UserError(err error) error {
	switch {
	case errors.Is(err, domainUser.ErrUserNotFound):
		return appErrors.ErrUserNotFound
	case errors.Is(err, domainUser.ErrUsernameTaken):
		return appErrors.ErrUsernameTaken
	case errors.Is(err, domainUser.ErrEmailTaken):
		return appErrors.ErrEmailTaken
	case errors.Is(err, domainUser.ErrUserAlreadyExists):
		return appErrors.ErrUserAlreadyExists
	}
	return err
}
