package car

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCategory     = "Sedan"
	DefaultSeats        = 4
	DefaultTransmission = "Automatic"
	DefaultFuelType     = "Gasoline"
	DefaultStatus       = StatusAvailable
)

// Status represents the sales status of a car
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

// Car represents a catalog entry in the domain
type Car struct {
	ID           uuid.UUID
	Make         string
	Model        string
	Year         int
	Price        float64
	Color        string
	Category     string
	Seats        int
	Transmission string
	FuelType     string
	Engine       string
	Horsepower   *int
	Images       []string
	Description  string
	Status       Status
	Deleted      bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplyDefaults fills unset optional attributes.
func (c *Car) ApplyDefaults() {
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	if c.Seats == 0 {
		c.Seats = DefaultSeats
	}
	if c.Transmission == "" {
		c.Transmission = DefaultTransmission
	}
	if c.FuelType == "" {
		c.FuelType = DefaultFuelType
	}
	if c.Status == "" {
		c.Status = DefaultStatus
	}
	if c.Images == nil {
		c.Images = []string{}
	}
}

func IsValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}
