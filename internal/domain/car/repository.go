package car

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for car repository operations
type Repository interface {
	Create(ctx context.Context, car *Car) error
	GetByID(ctx context.Context, carID uuid.UUID, includeDeleted bool) (*Car, error)
	// FindActiveByMakeModel returns the non-deleted car with the exact make
	// and model, or ErrCarNotFound.
	FindActiveByMakeModel(ctx context.Context, carMake, model string) (*Car, error)
	// GetByIDs returns the non-deleted cars among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Car, error)
	Update(ctx context.Context, car *Car) error
	SoftDelete(ctx context.Context, carID uuid.UUID, at time.Time) error
	Restore(ctx context.Context, carID uuid.UUID) error
	AppendImages(ctx context.Context, carID uuid.UUID, urls []string) error
	List(ctx context.Context, filter *Filter) ([]*Car, int64, error)
}

// Filter represents filtering options for listing cars. Results are newest
// first.
type Filter struct {
	Search         string
	Category       string
	Status         *Status
	IncludeDeleted bool
	Page           int
	PageSize       int
}

