package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
)

type CarRepository struct {
	store *Store
}

func NewCarRepository(store *Store) domainCar.Repository {
	return &CarRepository{store: store}
}

func (r *CarRepository) Create(_ context.Context, c *domainCar.Car) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.store.cars[c.ID] = cloneCar(c)
	return nil
}

func (r *CarRepository) GetByID(_ context.Context, carID uuid.UUID, includeDeleted bool) (*domainCar.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.cars[carID]
	if !ok || (c.Deleted && !includeDeleted) {
		return nil, domainCar.ErrCarNotFound
	}
	return cloneCar(c), nil
}

func (r *CarRepository) FindActiveByMakeModel(_ context.Context, carMake, model string) (*domainCar.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.cars {
		if !c.Deleted && c.Make == carMake && c.Model == model {
			return cloneCar(c), nil
		}
	}
	return nil, domainCar.ErrCarNotFound
}

func (r *CarRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domainCar.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cars := make([]*domainCar.Car, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.store.cars[id]; ok && !c.Deleted {
			cars = append(cars, cloneCar(c))
		}
	}
	return cars, nil
}

func (r *CarRepository) Update(_ context.Context, c *domainCar.Car) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.cars[c.ID]
	if !ok {
		return domainCar.ErrCarNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.Deleted = existing.Deleted
	c.DeletedAt = clonePtr(existing.DeletedAt)
	c.UpdatedAt = time.Now()
	r.store.cars[c.ID] = cloneCar(c)
	return nil
}

func (r *CarRepository) SoftDelete(_ context.Context, carID uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.cars[carID]
	if !ok || c.Deleted {
		return domainCar.ErrCarNotFound
	}
	c.Deleted = true
	c.DeletedAt = &at
	c.UpdatedAt = at
	return nil
}

func (r *CarRepository) Restore(_ context.Context, carID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.cars[carID]
	if !ok {
		return domainCar.ErrCarNotFound
	}
	c.Deleted = false
	c.DeletedAt = nil
	c.UpdatedAt = time.Now()
	return nil
}

func (r *CarRepository) AppendImages(_ context.Context, carID uuid.UUID, urls []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.cars[carID]
	if !ok {
		return domainCar.ErrCarNotFound
	}
	c.Images = append(c.Images, urls...)
	c.UpdatedAt = time.Now()
	return nil
}

func (r *CarRepository) List(_ context.Context, filter *domainCar.Filter) ([]*domainCar.Car, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var matched []*domainCar.Car
	for _, c := range r.store.cars {
		if c.Deleted && !filter.IncludeDeleted {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(c.Category, filter.Category) {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Make), search) &&
			!strings.Contains(strings.ToLower(c.Model), search) {
			continue
		}
		matched = append(matched, cloneCar(c))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return page(matched, utils.Offset(filter.Page, filter.PageSize), filter.PageSize), total, nil
}

func cloneCar(c *domainCar.Car) *domainCar.Car {
	cp := *c
	cp.Horsepower = clonePtr(c.Horsepower)
	cp.DeletedAt = clonePtr(c.DeletedAt)
	cp.Images = append([]string{}, c.Images...)
	return &cp
}
