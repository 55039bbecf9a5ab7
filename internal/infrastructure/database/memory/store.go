// Package memory is a process-local store used by tests and by the memory
// database driver in development.
package memory

import (
	"sync"

	domainBooking "fourwheeler-backend/internal/domain/booking"
	domainCar "fourwheeler-backend/internal/domain/car"
	domainUser "fourwheeler-backend/internal/domain/user"

	"github.com/google/uuid"
)

type Store struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*domainUser.User
	resets     map[uuid.UUID]*domainUser.PasswordResetRequest
	cars       map[uuid.UUID]*domainCar.Car
	testDrives map[uuid.UUID]*domainBooking.TestDrive
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]*domainUser.User),
		resets:     make(map[uuid.UUID]*domainUser.PasswordResetRequest),
		cars:       make(map[uuid.UUID]*domainCar.Car),
		testDrives: make(map[uuid.UUID]*domainBooking.TestDrive),
	}
}

func (s *Store) Health() error { return nil }

func (s *Store) Close() error { return nil }

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
