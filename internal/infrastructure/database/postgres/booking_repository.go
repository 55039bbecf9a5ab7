package postgres

import (
	"context"
	"fmt"
	"time"

	domainBooking "fourwheeler-backend/internal/domain/booking"
	"fourwheeler-backend/internal/infrastructure/database/postgres/models"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
)

// TestDriveRepository implements domainBooking.Repository
type TestDriveRepository struct {
	db *DB
}

func NewTestDriveRepository(db *DB) domainBooking.Repository {
	return &TestDriveRepository{db: db}
}

func (r *TestDriveRepository) Create(ctx context.Context, td *domainBooking.TestDrive) error {
	if td.ID == uuid.Nil {
		td.ID = uuid.New()
	}
	if td.CreatedAt.IsZero() {
		td.CreatedAt = time.Now()
	}

	dbModel := &models.TestDriveModel{
		ID:            td.ID,
		Name:          td.Name,
		Phone:         td.Phone,
		Email:         td.Email,
		CarID:         td.CarID,
		UserID:        td.UserID,
		PreferredDate: td.PreferredDate,
		Message:       td.Message,
		CreatedAt:     td.CreatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create test drive: %w", err)
	}
	return nil
}

func (r *TestDriveRepository) List(ctx context.Context, filter *domainBooking.Filter) ([]*domainBooking.TestDrive, int64, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.TestDriveModel{})
	if filter.CarID != nil {
		db = db.Where("car_id = ?", *filter.CarID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count test drives: %w", err)
	}

	var dbModels []models.TestDriveModel
	err := db.Order("created_at DESC").
		Offset(utils.Offset(filter.Page, filter.PageSize)).
		Limit(filter.PageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list test drives: %w", err)
	}

	drives := make([]*domainBooking.TestDrive, 0, len(dbModels))
	for _, m := range dbModels {
		drives = append(drives, &domainBooking.TestDrive{
			ID:            m.ID,
			Name:          m.Name,
			Phone:         m.Phone,
			Email:         m.Email,
			CarID:         m.CarID,
			UserID:        m.UserID,
			PreferredDate: m.PreferredDate,
			Message:       m.Message,
			CreatedAt:     m.CreatedAt,
		})
	}
	return drives, total, nil
}
