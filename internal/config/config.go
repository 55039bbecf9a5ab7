package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	StorageCloudinary = "cloudinary"
	StorageS3         = "s3"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	PasswordReset PasswordResetConfig
	SMTP          SMTPConfig
	Cookie        CookieConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Storage       StorageConfig
	Google        GoogleConfig
	Gemini        GeminiConfig
	Seed          SeedConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	MaxRequestSize int64
}

type DatabaseConfig struct {
	Driver string

	MongoURI      string
	MongoDatabase string

	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	ConnectTimeout time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	Issuer           string
	AccessTTLMinutes int
	RefreshTTLHours  int
}

type PasswordResetConfig struct {
	OTPTTLMinutes          int
	ResetTokenTTLMinutes   int
	CleanupIntervalMinutes int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	AuthRPS      float64 // Requests per second for credential endpoints
	AuthBurst    int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CarTTL   time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type StorageConfig struct {
	Provider   string
	Cloudinary CloudinaryConfig
	S3         S3Config
}

type CloudinaryConfig struct {
	URL    string
	Folder string
}

type S3Config struct {
	Bucket        string
	Region        string
	Prefix        string
	PublicBaseURL string
}

type GoogleConfig struct {
	ClientID string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type SeedConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("MAX_REQUEST_SIZE_BYTES", 10<<20)

	v.SetDefault("DATABASE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "fourwheeler")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT_SECONDS", 10)

	v.SetDefault("JWT_ISSUER", "fourwheeler")
	v.SetDefault("JWT_ACCESS_TTL_MINUTES", 15)
	v.SetDefault("JWT_REFRESH_TTL_HOURS", 7*24)

	v.SetDefault("PASSWORD_RESET_OTP_TTL_MINUTES", 5)
	v.SetDefault("PASSWORD_RESET_TOKEN_TTL_MINUTES", 10)
	v.SetDefault("PASSWORD_RESET_CLEANUP_INTERVAL_MINUTES", 60)

	v.SetDefault("SMTP_PORT", 587)

	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("COOKIE_SAMESITE", "lax")

	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	v.SetDefault("RATE_LIMIT_AUTH_RPS", 1)
	v.SetDefault("RATE_LIMIT_AUTH_BURST", 5)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Request-ID")
	v.SetDefault("CORS_EXPOSED_HEADERS", "X-Request-ID")
	v.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	v.SetDefault("CORS_MAX_AGE", 12*60*60)

	v.SetDefault("REDIS_CAR_TTL_SECONDS", 300)
	v.SetDefault("KAFKA_TOPIC", "fourwheeler.events")

	v.SetDefault("CLOUDINARY_FOLDER", "cars")
	v.SetDefault("S3_PREFIX", "cars")

	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("GEMINI_TIMEOUT_SECONDS", 30)

	v.SetDefault("SEED_ADMIN_USERNAME", "admin")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@fourwheeler.local")
}

// Load reads configuration from an optional .env file in the working
// directory, with environment variables taking precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: .env file not found. Falling back to environment variables only.")
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("ENVIRONMENT"),
			MaxRequestSize: v.GetInt64("MAX_REQUEST_SIZE_BYTES"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(v.GetString("DATABASE_DRIVER")),
			MongoURI:       v.GetString("MONGO_URI"),
			MongoDatabase:  v.GetString("MONGO_DATABASE"),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			DBName:         v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			ConnectTimeout: seconds(v.GetInt("DB_CONNECT_TIMEOUT_SECONDS")),
		},
		JWT: JWTConfig{
			AccessSecret:     v.GetString("JWT_SECRET"),
			RefreshSecret:    v.GetString("JWT_REFRESH_SECRET"),
			Issuer:           v.GetString("JWT_ISSUER"),
			AccessTTLMinutes: v.GetInt("JWT_ACCESS_TTL_MINUTES"),
			RefreshTTLHours:  v.GetInt("JWT_REFRESH_TTL_HOURS"),
		},
		PasswordReset: PasswordResetConfig{
			OTPTTLMinutes:          v.GetInt("PASSWORD_RESET_OTP_TTL_MINUTES"),
			ResetTokenTTLMinutes:   v.GetInt("PASSWORD_RESET_TOKEN_TTL_MINUTES"),
			CleanupIntervalMinutes: v.GetInt("PASSWORD_RESET_CLEANUP_INTERVAL_MINUTES"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Cookie: CookieConfig{
			Secure:   v.GetBool("COOKIE_SECURE"),
			SameSite: strings.ToLower(v.GetString("COOKIE_SAMESITE")),
			Domain:   v.GetString("COOKIE_DOMAIN"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
			AuthRPS:      v.GetFloat64("RATE_LIMIT_AUTH_RPS"),
			AuthBurst:    v.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitList(v.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitList(v.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CarTTL:   seconds(v.GetInt("REDIS_CAR_TTL_SECONDS")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Storage: StorageConfig{
			Provider: strings.ToLower(v.GetString("STORAGE_PROVIDER")),
			Cloudinary: CloudinaryConfig{
				URL:    v.GetString("CLOUDINARY_URL"),
				Folder: v.GetString("CLOUDINARY_FOLDER"),
			},
			S3: S3Config{
				Bucket:        v.GetString("S3_BUCKET"),
				Region:        v.GetString("S3_REGION"),
				Prefix:        v.GetString("S3_PREFIX"),
				PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
			},
		},
		Google: GoogleConfig{
			ClientID: v.GetString("GOOGLE_CLIENT_ID"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			Model:   v.GetString("GEMINI_MODEL"),
			BaseURL: v.GetString("GEMINI_BASE_URL"),
			Timeout: seconds(v.GetInt("GEMINI_TIMEOUT_SECONDS")),
		},
		Seed: SeedConfig{
			AdminUsername: v.GetString("SEED_ADMIN_USERNAME"),
			AdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" || c.Database.MongoDatabase == "" {
			return errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Provider {
	case "":
	case StorageCloudinary:
		if c.Storage.Cloudinary.URL == "" {
			return errors.New("CLOUDINARY_URL is required for the cloudinary storage provider")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" || c.Storage.S3.Region == "" {
			return errors.New("S3_BUCKET and S3_REGION are required for the s3 storage provider")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q", c.Storage.Provider)
	}

	switch c.Cookie.SameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("unsupported COOKIE_SAMESITE %q", c.Cookie.SameSite)
	}

	if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
		return errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLHours) * time.Hour
}

func (c PasswordResetConfig) OTPTTL() time.Duration {
	return time.Duration(c.OTPTTLMinutes) * time.Minute
}

func (c PasswordResetConfig) ResetTokenTTL() time.Duration {
	return time.Duration(c.ResetTokenTTLMinutes) * time.Minute
}

func (c PasswordResetConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
