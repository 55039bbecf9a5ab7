package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	raw, err := encodeEvent("test_drive.booked", map[string]string{"car_id": "abc"}, at)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "test_drive.booked", got["type"])
	assert.Equal(t, "2026-03-01T10:00:00Z", got["occurred_at"])
	assert.Equal(t, map[string]interface{}{"car_id": "abc"}, got["data"])
}

func TestEncodeEventRejectsUnencodable(t *testing.T) {
	_, err := encodeEvent("x", make(chan int), time.Now())
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), "x", "k", nil))
	assert.NoError(t, p.Close())
}
