package memory

import (
	"context"
	"sort"
	"time"

	domainBooking "fourwheeler-backend/internal/domain/booking"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
)

type TestDriveRepository struct {
	store *Store
}

func NewTestDriveRepository(store *Store) domainBooking.Repository {
	return &TestDriveRepository{store: store}
}

func (r *TestDriveRepository) Create(_ context.Context, td *domainBooking.TestDrive) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if td.ID == uuid.Nil {
		td.ID = uuid.New()
	}
	if td.CreatedAt.IsZero() {
		td.CreatedAt = time.Now()
	}
	cp := *td
	cp.UserID = clonePtr(td.UserID)
	r.store.testDrives[td.ID] = &cp
	return nil
}

func (r *TestDriveRepository) List(_ context.Context, filter *domainBooking.Filter) ([]*domainBooking.TestDrive, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*domainBooking.TestDrive
	for _, td := range r.store.testDrives {
		if filter.CarID != nil && td.CarID != *filter.CarID {
			continue
		}
		cp := *td
		cp.UserID = clonePtr(td.UserID)
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return page(matched, utils.Offset(filter.Page, filter.PageSize), filter.PageSize), total, nil
}
