package car

import (
	"io"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"

	"github.com/google/uuid"
)

type CreateCarRequest struct {
	Make         string  `json:"make" validate:"required,min=1,max=100"`
	Model        string  `json:"model" validate:"required,min=1,max=100"`
	Year         int     `json:"year" validate:"required,min=1886,max=2100"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Color        string  `json:"color" validate:"required,max=50"`
	Category     string  `json:"category" validate:"omitempty,max=50"`
	Seats        int     `json:"seats" validate:"omitempty,min=1,max=20"`
	Transmission string  `json:"transmission" validate:"omitempty,max=50"`
	FuelType     string  `json:"fuel_type" validate:"omitempty,max=50"`
	Engine       string  `json:"engine" validate:"omitempty,max=100"`
	Horsepower   *int    `json:"horsepower" validate:"omitempty,min=1,max=5000"`
	Description  string  `json:"description" validate:"omitempty,max=5000"`
	Status       string  `json:"status" validate:"omitempty,oneof=available reserved sold"`
}

type UpdateCarRequest struct {
	Make         *string  `json:"make" validate:"omitempty,min=1,max=100"`
	Model        *string  `json:"model" validate:"omitempty,min=1,max=100"`
	Year         *int     `json:"year" validate:"omitempty,min=1886,max=2100"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Color        *string  `json:"color" validate:"omitempty,max=50"`
	Category     *string  `json:"category" validate:"omitempty,min=1,max=50"`
	Seats        *int     `json:"seats" validate:"omitempty,min=1,max=20"`
	Transmission *string  `json:"transmission" validate:"omitempty,min=1,max=50"`
	FuelType     *string  `json:"fuel_type" validate:"omitempty,min=1,max=50"`
	Engine       *string  `json:"engine" validate:"omitempty,max=100"`
	Horsepower   *int     `json:"horsepower" validate:"omitempty,min=1,max=5000"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Status       *string  `json:"status" validate:"omitempty,oneof=available reserved sold"`
}

// ListCarsQuery is bound from the listing query string.
type ListCarsQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
}

// ImageFile is one uploaded image. Body is read once.
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CarResponse struct {
	ID           uuid.UUID  `json:"id"`
	Make         string     `json:"make"`
	Model        string     `json:"model"`
	Year         int        `json:"year"`
	Price        float64    `json:"price"`
	Color        string     `json:"color"`
	Category     string     `json:"category"`
	Seats        int        `json:"seats"`
	Transmission string     `json:"transmission"`
	FuelType     string     `json:"fuel_type"`
	Engine       string     `json:"engine,omitempty"`
	Horsepower   *int       `json:"horsepower,omitempty"`
	Images       []string   `json:"images"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Deleted      bool       `json:"deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CarListResponse struct {
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Total int64          `json:"total"`
	Cars  []*CarResponse `json:"cars"`
}

func ToCarResponse(c *domainCar.Car) *CarResponse {
	if c == nil {
		return nil
	}
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return &CarResponse{
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

func ToCarResponses(cars []*domainCar.Car) []*CarResponse {
	out := make([]*CarResponse, 0, len(cars))
	for _, c := range cars {
		out = append(out, ToCarResponse(c))
	}
	return out
}
