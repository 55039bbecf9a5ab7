// Command seed creates the admin account and a demo catalog. Existing rows
// are left untouched so it can run repeatedly.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fourwheeler-backend/internal/config"
	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/internal/infrastructure/database"
	"fourwheeler-backend/internal/infrastructure/queue"
	"fourwheeler-backend/internal/logger"
	"fourwheeler-backend/internal/usecase/car"
	appErrors "fourwheeler-backend/pkg/errors"
	"fourwheeler-backend/pkg/utils"

	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

var demoCars = []car.CreateCarRequest{
	{Make: "BMW", Model: "X5", Year: 2023, Price: 75000, Color: "Black", Category: "SUV", Seats: 5, Transmission: "Automatic", FuelType: "Gasoline", Engine: "2.0L Turbo", Horsepower: intPtr(335), Description: "Premium luxury SUV with advanced features and spacious interior"},
	{Make: "Mercedes-Benz", Model: "C-Class", Year: 2022, Price: 65000, Color: "Silver", Category: "Sedan", Seats: 5, Transmission: "Automatic", FuelType: "Gasoline", Engine: "1.5L Turbo", Horsepower: intPtr(255), Description: "Elegant sedan with cutting-edge technology and comfort"},
	{Make: "Toyota", Model: "Corolla", Year: 2023, Price: 35000, Color: "White", Category: "Sedan", Seats: 5, Transmission: "Automatic", FuelType: "Hybrid", Engine: "1.8L Hybrid", Horsepower: intPtr(168), Description: "Reliable and fuel-efficient family sedan"},
	{Make: "Audi", Model: "Q7", Year: 2023, Price: 80000, Color: "Blue", Category: "SUV", Seats: 7, Transmission: "Automatic", FuelType: "Gasoline", Engine: "3.0L V6 Turbo", Horsepower: intPtr(335), Description: "Three-row luxury SUV with quattro all-wheel drive"},
	{Make: "Tesla", Model: "Model 3", Year: 2024, Price: 42000, Color: "Red", Category: "Sedan", Seats: 5, Transmission: "Automatic", FuelType: "Electric", Engine: "Dual Motor", Horsepower: intPtr(425), Description: "All-electric sedan with long range and autopilot"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(cfg.Server.Environment); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.Seed.AdminPassword == "" {
		logger.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if err := seedAdmin(ctx, store.Users, cfg.Seed); err != nil {
		logger.Fatal("Failed to seed admin", zap.Error(err))
	}

	created := seedCars(ctx, car.NewService(store.Cars, nil, nil, queue.NoopPublisher{}))
	logger.Info("Seed completed", zap.Int("cars_created", created))
}

func seedAdmin(ctx context.Context, users domainUser.Repository, seed config.SeedConfig) error {
	if _, err := users.GetByEmail(ctx, seed.AdminEmail); err == nil {
		logger.Info("Admin already exists", zap.String("email", seed.AdminEmail))
		return nil
	} else if !errors.Is(err, domainUser.ErrUserNotFound) {
		return err
	}

	hash, err := utils.HashPassword(seed.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &domainUser.User{
		Username:     seed.AdminUsername,
		Email:        seed.AdminEmail,
		PasswordHash: hash,
		Role:         domainUser.RoleAdmin,
		Status:       domainUser.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("Admin created",
		zap.String("event", "seed_admin_created"),
		zap.String("user_id", admin.ID.String()),
		zap.String("email", admin.Email),
	)
	return nil
}

func seedCars(ctx context.Context, cars *car.Service) int {
	created := 0
	for i := range demoCars {
		req := demoCars[i]
		_, err := cars.CreateCar(ctx, &req)
		switch {
		case err == nil:
			created++
		case errors.Is(err, appErrors.ErrCarAlreadyExists):
			logger.Debug("Car already seeded", zap.String("make", req.Make), zap.String("model", req.Model))
		default:
			logger.Warn("Failed to seed car", zap.String("make", req.Make), zap.String("model", req.Model), zap.Error(err))
		}
	}
	return created
}
