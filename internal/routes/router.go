package routes

import (
	"net/http"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/delivery/http/handler"
	"fourwheeler-backend/internal/logger"
	"fourwheeler-backend/internal/middleware"
	"fourwheeler-backend/internal/usecase/auth"
	"fourwheeler-backend/internal/usecase/booking"
	"fourwheeler-backend/internal/usecase/car"
	"fourwheeler-backend/internal/usecase/comparison"
	"fourwheeler-backend/internal/usecase/user"
	"fourwheeler-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

const banner = "4Wheeler API is running 🚗"

type HealthChecker interface {
	Health() error
}

// Dependencies are the services the HTTP layer is built from.
type Dependencies struct {
	Store      HealthChecker
	Issuer     *token.Issuer
	Auth       *auth.Service
	Users      *user.Service
	Cars       *car.Service
	Bookings   *booking.Service
	Comparison *comparison.Service
}

func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, banner)
	})

	router.GET("/health", func(c *gin.Context) {
		if err := deps.Store.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	cookies := handler.NewCookies(cfg.Cookie)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Issuer, cookies)
	userHandler := handler.NewUserHandler(deps.Users)
	carHandler := handler.NewCarHandler(deps.Cars)
	bookingHandler := handler.NewBookingHandler(deps.Bookings)
	comparisonHandler := handler.NewComparisonHandler(deps.Comparison)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst))
		authHandler.RegisterRoutes(authGroup)

		carHandler.RegisterRoutes(api)
		bookingHandler.RegisterRoutes(api, middleware.OptionalAuthMiddleware(deps.Issuer))
		comparisonHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Issuer))
		{
			userHandler.RegisterRoutes(protected)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(deps.Issuer), middleware.AdminOnly())
		{
			carHandler.RegisterAdminRoutes(admin)
			userHandler.RegisterAdminRoutes(admin)
			bookingHandler.RegisterAdminRoutes(admin)
		}
	}

	logger.Info("All routes initialized")
	return router
}
