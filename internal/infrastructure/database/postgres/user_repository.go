package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/infrastructure/database/postgres/models"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements domainUser.Repository
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	now := time.Now()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			return duplicateUserError(constraint)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	return r.getActive(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.getActive(ctx, "email = ?", email)
}

func (r *UserRepository) List(ctx context.Context, filter *domainUser.Filter) ([]*domainUser.User, int64, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.UserModel{})
	if !filter.IncludeDeleted {
		db = db.Where("deleted = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var dbModels []models.UserModel
	err := db.Order("created_at DESC").
		Offset(utils.Offset(filter.Page, filter.PageSize)).
		Limit(filter.PageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(dbModels))
	for _, m := range dbModels {
		ids = append(ids, m.ID)
	}
	favorites, err := r.favoritesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	users := make([]*domainUser.User, 0, len(dbModels))
	for i := range dbModels {
		users = append(users, toUserEntity(&dbModels[i], favorites[dbModels[i].ID]))
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainUser.User) error {
	u.UpdatedAt = time.Now()
	return r.updateActive(ctx, u.ID, map[string]interface{}{
		"username":   u.Username,
		"status":     u.Status,
		"phone":      u.Phone,
		"avatar":     u.Avatar,
		"updated_at": u.UpdatedAt,
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.updateActive(ctx, userID, map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
}

func (r *UserRepository) SoftDelete(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.updateActive(ctx, userID, map[string]interface{}{
		"deleted":    true,
		"deleted_at": at,
		"updated_at": at,
	})
}

func (r *UserRepository) AddFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	if _, err := r.getActive(ctx, "id = ?", userID); err != nil {
		return err
	}

	fav := &models.FavoriteModel{UserID: userID, CarID: carID, CreatedAt: time.Now()}
	err := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fav).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	if _, err := r.getActive(ctx, "id = ?", userID); err != nil {
		return err
	}

	err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND car_id = ?", userID, carID).
		Delete(&models.FavoriteModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *UserRepository) getActive(ctx context.Context, query string, arg interface{}) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where(query, arg).
		Where("deleted = ?", false).
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	favorites, err := r.favoritesFor(ctx, []uuid.UUID{dbModel.ID})
	if err != nil {
		return nil, err
	}
	return toUserEntity(&dbModel, favorites[dbModel.ID]), nil
}

func (r *UserRepository) favoritesFor(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []models.FavoriteModel
	err := r.db.DB.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.CarID)
	}
	return out, nil
}

func (r *UserRepository) updateActive(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ? AND deleted = ?", userID, false).
		Updates(updates)
	if result.Error != nil {
		if constraint, ok := uniqueConstraint(result.Error); ok {
			return duplicateUserError(constraint)
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

func duplicateUserError(constraint string) error {
	switch {
	case strings.Contains(constraint, usernameIndex):
		return domainUser.ErrUsernameTaken
	case strings.Contains(constraint, emailIndex):
		return domainUser.ErrEmailTaken
	default:
		return domainUser.ErrUserAlreadyExists
	}
}

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		Phone:        u.Phone,
		Avatar:       u.Avatar,
		Deleted:      u.Deleted,
		DeletedAt:    u.DeletedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel, favorites []uuid.UUID) *domainUser.User {
	if favorites == nil {
		favorites = []uuid.UUID{}
	}
	return &domainUser.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Status:       m.Status,
		Phone:        m.Phone,
		Avatar:       m.Avatar,
		Favorites:    favorites,
		Deleted:      m.Deleted,
		DeletedAt:    m.DeletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
