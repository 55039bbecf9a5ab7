package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, td *TestDrive) error
	List(ctx context.Context, filter *Filter) ([]*TestDrive, int64, error)
}

// Filter represents filtering options for listing test drives, newest first
type Filter struct {
	CarID    *uuid.UUID
	Page     int
	PageSize int
}
