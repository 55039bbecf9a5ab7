// Package cache holds the read-through cache for public car detail lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fourwheeler-backend/internal/config"
	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const carKeyPrefix = "car:"

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        10,
		MinIdleConns:    5,
		MaxRetries:      3,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", cfg.Addr))
	return client, nil
}

// RedisCarCache stores serialized cars by id. Failures are logged and treated
// as misses.
type RedisCarCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCarCache(client redis.Cmdable, ttl time.Duration) *RedisCarCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCarCache{client: client, ttl: ttl}
}

func (c *RedisCarCache) Get(ctx context.Context, carID uuid.UUID) (*domainCar.Car, bool) {
	raw, err := c.client.Get(ctx, carKey(carID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Warn("Car cache read failed", zap.String("car_id", carID.String()), zap.Error(err))
		return nil, false
	}

	var car domainCar.Car
	if err := json.Unmarshal(raw, &car); err != nil {
		logger.Warn("Car cache entry is corrupt", zap.String("car_id", carID.String()), zap.Error(err))
		return nil, false
	}
	return &car, true
}

func (c *RedisCarCache) Set(ctx context.Context, car *domainCar.Car) {
	raw, err := json.Marshal(car)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, carKey(car.ID), raw, c.ttl).Err(); err != nil {
		logger.Warn("Car cache write failed", zap.String("car_id", car.ID.String()), zap.Error(err))
	}
}

func (c *RedisCarCache) Invalidate(ctx context.Context, carID uuid.UUID) {
	if err := c.client.Del(ctx, carKey(carID)).Err(); err != nil {
		logger.Warn("Car cache invalidation failed", zap.String("car_id", carID.String()), zap.Error(err))
	}
}

func carKey(id uuid.UUID) string {
	return carKeyPrefix + id.String()
}
