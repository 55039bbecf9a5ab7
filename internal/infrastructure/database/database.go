// Package database opens the configured store and exposes its repositories.
package database

import (
	"context"
	"fmt"

	"fourwheeler-backend/internal/config"
	domainBooking "fourwheeler-backend/internal/domain/booking"
	domainCar "fourwheeler-backend/internal/domain/car"
	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/infrastructure/database/memory"
	"fourwheeler-backend/internal/infrastructure/database/mongodb"
	"fourwheeler-backend/internal/infrastructure/database/postgres"
)

type Repositories struct {
	Users          domainUser.Repository
	PasswordResets domainUser.PasswordResetRepository
	Cars           domainCar.Repository
	TestDrives     domainBooking.Repository
}

// Store is an open database with its repositories.
type Store struct {
	Repositories
	health func() error
	close  func() error
}

func (s *Store) Health() error { return s.health() }

func (s *Store) Close() error { return s.close() }

func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, err := mongodb.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Repositories: Repositories{
				Users:          mongodb.NewUserRepository(db),
				PasswordResets: mongodb.NewPasswordResetRepository(db),
				Cars:           mongodb.NewCarRepository(db),
				TestDrives:     mongodb.NewTestDriveRepository(db),
			},
			health: db.Health,
			close:  db.Close,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Repositories: Repositories{
				Users:          postgres.NewUserRepository(db),
				PasswordResets: postgres.NewPasswordResetRepository(db),
				Cars:           postgres.NewCarRepository(db),
				TestDrives:     postgres.NewTestDriveRepository(db),
			},
			health: db.Health,
			close:  db.Close,
		}, nil

	case config.DriverMemory:
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// NewMemory returns a fresh in-process store.
func NewMemory() *Store {
	s := memory.NewStore()
	return &Store{
		Repositories: Repositories{
			Users:          memory.NewUserRepository(s),
			PasswordResets: memory.NewPasswordResetRepository(s),
			Cars:           memory.NewCarRepository(s),
			TestDrives:     memory.NewTestDriveRepository(s),
		},
		health: s.Health,
		close:  s.Close,
	}
}
