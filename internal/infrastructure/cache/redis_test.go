package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCarKey(t *testing.T) {
	id := uuid.MustParse("9b2f3c1e-7a4d-4e59-8f00-0c1d2e3f4a5b")
	assert.Equal(t, "car:9b2f3c1e-7a4d-4e59-8f00-0c1d2e3f4a5b", carKey(id))
}

func TestUnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisCarCache(client, time.Minute)
	_, ok := c.Get(context.Background(), uuid.New())
	assert.False(t, ok)
}
