package models

import (
	"time"

	"github.com/google/uuid"
)

// CarModel represents the database model for Car. The partial unique index
// keeps one live car per make and model.
type CarModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Make         string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_cars_make_model,where:deleted = false"`
	Model        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_cars_make_model,where:deleted = false"`
	Year         int        `gorm:"not null"`
	Price        float64    `gorm:"type:numeric(12,2);not null"`
	Color        string     `gorm:"type:varchar(50)"`
	Category     string     `gorm:"type:varchar(50);not null;default:'Sedan';index"`
	Seats        int        `gorm:"not null;default:4"`
	Transmission string     `gorm:"type:varchar(50);not null;default:'Automatic'"`
	FuelType     string     `gorm:"type:varchar(50);not null;default:'Gasoline'"`
	Engine       string     `gorm:"type:varchar(100)"`
	Horsepower   *int       `gorm:"type:integer"`
	Images       []string   `gorm:"type:jsonb;serializer:json"`
	Description  string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(20);not null;default:'available';index"`
	Deleted      bool       `gorm:"default:false;not null;index"`
	DeletedAt    *time.Time `gorm:"type:timestamp"`
	CreatedAt    time.Time  `gorm:"not null;index"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (CarModel) TableName() string {
	return "cars"
}

// TestDriveModel represents the database model for TestDrive
type TestDriveModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          string     `gorm:"type:varchar(255);not null"`
	Phone         string     `gorm:"type:varchar(20);not null"`
	Email         string     `gorm:"type:varchar(255)"`
	CarID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	PreferredDate *time.Time `gorm:"type:timestamp"`
	Message       string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"not null;index"`
}

func (TestDriveModel) TableName() string {
	return "test_drives"
}
