package booking

import (
	"time"

	domainBooking "fourwheeler-backend/internal/domain/booking"

	"github.com/google/uuid"
)

type BookTestDriveRequest struct {
	Name          string     `json:"name" validate:"required,min=2,max=100"`
	Phone         string     `json:"phone" validate:"required,phone"`
	Email         string     `json:"email" validate:"omitempty,email"`
	PreferredDate *time.Time `json:"preferred_date"`
	Message       string     `json:"message" validate:"omitempty,max=1000"`
}

// ListTestDrivesQuery is bound from the admin listing query string.
type ListTestDrivesQuery struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	CarID string `form:"car_id"`
}

type TestDriveResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	CarID         uuid.UUID  `json:"car_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	Message       string     `json:"message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type TestDriveListResponse struct {
	Page       int                  `json:"page"`
	Pages      int                  `json:"pages"`
	Total      int64                `json:"total"`
	TestDrives []*TestDriveResponse `json:"test_drives"`
}

func ToTestDriveResponse(td *domainBooking.TestDrive) *TestDriveResponse {
	if td == nil {
		return nil
	}
	return &TestDriveResponse{
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
}
