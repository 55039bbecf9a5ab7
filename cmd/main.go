package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/infrastructure/cache"
	"fourwheeler-backend/internal/infrastructure/database"
	"fourwheeler-backend/internal/infrastructure/gemini"
	"fourwheeler-backend/internal/infrastructure/google"
	"fourwheeler-backend/internal/infrastructure/mailer"
	"fourwheeler-backend/internal/infrastructure/queue"
	"fourwheeler-backend/internal/infrastructure/storage"
	"fourwheeler-backend/internal/logger"
	"fourwheeler-backend/internal/routes"
	"fourwheeler-backend/internal/usecase/auth"
	"fourwheeler-backend/internal/usecase/booking"
	"fourwheeler-backend/internal/usecase/car"
	"fourwheeler-backend/internal/usecase/comparison"
	"fourwheeler-backend/internal/usecase/user"
	"fourwheeler-backend/pkg/token"

	"go.uber.org/zap"
)

type eventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("database_driver", cfg.Database.Driver),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	issuer := token.NewIssuer(token.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     cfg.JWT.AccessTTL(),
		RefreshTTL:    cfg.JWT.RefreshTTL(),
	})

	var carCache car.Cache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, car cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			carCache = cache.NewRedisCarCache(client, cfg.Redis.CarTTL)
		}
	}

	var events eventPublisher = queue.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		events = queue.NewKafkaPublisher(cfg.Kafka)
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}()

	uploader, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	var imageUploader car.ImageUploader
	if uploader != nil {
		imageUploader = uploader
	}

	var verifier auth.GoogleVerifier
	if cfg.Google.ClientID != "" {
		verifier = google.NewVerifier(cfg.Google.ClientID)
	}

	var generator comparison.TextGenerator
	if client := gemini.NewClient(cfg.Gemini); client.Configured() {
		generator = client
	} else {
		logger.Warn("GEMINI_API_KEY not set, car comparison disabled")
	}

	authService := auth.NewService(
		store.Users,
		store.PasswordResets,
		issuer,
		mailer.NewSMTPMailer(cfg.SMTP, cfg.IsProduction()),
		verifier,
		cfg.PasswordReset,
	)
	go authService.StartResetCleanupJob(ctx, cfg.PasswordReset.CleanupInterval())

	router := routes.SetupRoutes(cfg, routes.Dependencies{
		Store:      store,
		Issuer:     issuer,
		Auth:       authService,
		Users:      user.NewService(store.Users, store.Cars),
		Cars:       car.NewService(store.Cars, carCache, imageUploader, events),
		Bookings:   booking.NewService(store.TestDrives, store.Cars, events),
		Comparison: comparison.NewService(generator),
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
