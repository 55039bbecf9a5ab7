package booking

import (
	"time"

	"github.com/google/uuid"
)

// TestDrive is a test-drive request for a car. It is never modified after
// creation.
type TestDrive struct {
	ID            uuid.UUID
	Name          string
	Phone         string
	Email         string
	CarID         uuid.UUID
	UserID        *uuid.UUID
	PreferredDate *time.Time
	Message       string
	CreatedAt     time.Time
}
