package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/internal/infrastructure/database/postgres/models"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CarRepository implements domainCar.Repository
type CarRepository struct {
	db *DB
}

func NewCarRepository(db *DB) domainCar.Repository {
	return &CarRepository{db: db}
}

func (r *CarRepository) Create(ctx context.Context, c *domainCar.Car) error {
	now := time.Now()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toCarModel(c)).Error; err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return domainCar.ErrCarAlreadyExists
		}
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, carID uuid.UUID, includeDeleted bool) (*domainCar.Car, error) {
	db := r.db.DB.WithContext(ctx).Where("id = ?", carID)
	if !includeDeleted {
		db = db.Where("deleted = ?", false)
	}
	return r.first(db)
}

func (r *CarRepository) FindActiveByMakeModel(ctx context.Context, carMake, model string) (*domainCar.Car, error) {
	return r.first(r.db.DB.WithContext(ctx).
		Where("make = ? AND model = ? AND deleted = ?", carMake, model, false))
}

func (r *CarRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domainCar.Car, error) {
	if len(ids) == 0 {
		return []*domainCar.Car{}, nil
	}

	var dbModels []models.CarModel
	err := r.db.DB.WithContext(ctx).
		Where("id IN ? AND deleted = ?", ids, false).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cars: %w", err)
	}
	return toCarEntities(dbModels), nil
}

func (r *CarRepository) Update(ctx context.Context, c *domainCar.Car) error {
	c.UpdatedAt = time.Now()
	result := r.db.DB.WithContext(ctx).
		Model(&models.CarModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"make":         c.Make,
			"model":        c.Model,
			"year":         c.Year,
			"price":        c.Price,
			"color":        c.Color,
			"category":     c.Category,
			"seats":        c.Seats,
			"transmission": c.Transmission,
			"fuel_type":    c.FuelType,
			"engine":       c.Engine,
			"horsepower":   c.Horsepower,
			"description":  c.Description,
			"status":       string(c.Status),
			"updated_at":   c.UpdatedAt,
		})
	return r.checkUpdate(result)
}

func (r *CarRepository) SoftDelete(ctx context.Context, carID uuid.UUID, at time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.CarModel{}).
		Where("id = ? AND deleted = ?", carID, false).
		Updates(map[string]interface{}{
			"deleted":    true,
			"deleted_at": at,
			"updated_at": at,
		})
	return r.checkUpdate(result)
}

func (r *CarRepository) Restore(ctx context.Context, carID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.CarModel{}).
		Where("id = ?", carID).
		Updates(map[string]interface{}{
			"deleted":    false,
			"deleted_at": nil,
			"updated_at": time.Now(),
		})
	return r.checkUpdate(result)
}

func (r *CarRepository) AppendImages(ctx context.Context, carID uuid.UUID, urls []string) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.CarModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", carID).
			First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainCar.ErrCarNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock car: %w", err)
		}

		m.Images = append(m.Images, urls...)
		m.UpdatedAt = time.Now()
		if err := tx.Model(&m).Select("images", "updated_at").Updates(&m).Error; err != nil {
			return fmt.Errorf("failed to append images: %w", err)
		}
		return nil
	})
}

func (r *CarRepository) List(ctx context.Context, filter *domainCar.Filter) ([]*domainCar.Car, int64, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.CarModel{})

	if !filter.IncludeDeleted {
		db = db.Where("deleted = ?", false)
	}
	if filter.Category != "" {
		db = db.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		db = db.Where("(make ILIKE ? OR model ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	var dbModels []models.CarModel
	err := db.Order("created_at DESC").
		Offset(utils.Offset(filter.Page, filter.PageSize)).
		Limit(filter.PageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cars: %w", err)
	}

	return toCarEntities(dbModels), total, nil
}

func (r *CarRepository) first(db *gorm.DB) (*domainCar.Car, error) {
	var m models.CarModel
	err := db.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainCar.ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return toCarEntity(&m), nil
}

func (r *CarRepository) checkUpdate(result *gorm.DB) error {
	if result.Error != nil {
		if _, ok := uniqueConstraint(result.Error); ok {
			return domainCar.ErrCarAlreadyExists
		}
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainCar.ErrCarNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toCarModel(c *domainCar.Car) *models.CarModel {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return &models.CarModel{
		ID:           c.ID,
		Make:         c.Make,
		Model:        c.Model,
		Year:         c.Year,
		Price:        c.Price,
		Color:        c.Color,
		Category:     c.Category,
		Seats:        c.Seats,
		Transmission: c.Transmission,
		FuelType:     c.FuelType,
		Engine:       c.Engine,
		Horsepower:   c.Horsepower,
		Images:       images,
		Description:  c.Description,
		Status:       string(c.Status),
		Deleted:      c.Deleted,
		DeletedAt:    c.DeletedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toCarEntity(m *models.CarModel) *domainCar.Car {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return &domainCar.Car{
		ID:           m.ID,
		Make:         m.Make,
		Model:        m.Model,
		Year:         m.Year,
		Price:        m.Price,
		Color:        m.Color,
		Category:     m.Category,
		Seats:        m.Seats,
		Transmission: m.Transmission,
		FuelType:     m.FuelType,
		Engine:       m.Engine,
		Horsepower:   m.Horsepower,
		Images:       images,
		Description:  m.Description,
		Status:       domainCar.Status(m.Status),
		Deleted:      m.Deleted,
		DeletedAt:    m.DeletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toCarEntities(dbModels []models.CarModel) []*domainCar.Car {
	cars := make([]*domainCar.Car, 0, len(dbModels))
	for i := range dbModels {
		cars = append(cars, toCarEntity(&dbModels[i]))
	}
	return cars
}
