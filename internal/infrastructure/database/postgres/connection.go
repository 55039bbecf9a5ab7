// Package postgres is the gorm implementation of the domain repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/infrastructure/database/postgres/models"
	"fourwheeler-backend/internal/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const uniqueViolation = "23505"

// Index names declared on the gorm models.
const (
	usernameIndex = "idx_users_username"
	emailIndex    = "idx_users_email"
)

type DB struct {
	*gorm.DB
}

func NewDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	dsn := cfg.Database.DSN()

	var gormLogLevel gormLogger.LogLevel
	if cfg.IsProduction() {
		gormLogLevel = gormLogger.Warn
	} else {
		gormLogLevel = gormLogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	timeout := cfg.Database.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.UserModel{},
		&models.FavoriteModel{},
		&models.PasswordResetModel{},
		&models.CarModel{},
		&models.TestDriveModel{},
	); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("driver", config.DriverPostgres),
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", 25),
		zap.Int("max_idle_connections", 5),
	)

	return &DB{DB: db}, nil
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// uniqueConstraint returns the violated constraint name when err is a unique
// violation.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	if err != nil && strings.Contains(err.Error(), "duplicate key value") {
		return err.Error(), true
	}
	return "", false
}
