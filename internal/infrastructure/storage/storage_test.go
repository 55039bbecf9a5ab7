package storage

import (
	"context"
	"strings"
	"testing"

	"fourwheeler-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutProvider(t *testing.T) {
	u, err := New(context.Background(), config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Provider: "ftp"})
	assert.ErrorContains(t, err, "unsupported storage provider")
}

func TestObjectNameKeepsExtension(t *testing.T) {
	a := objectName("Front View.JPG")
	b := objectName("Front View.JPG")

	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
	assert.NotContains(t, objectName("noext"), ".")
}

func TestS3ObjectKey(t *testing.T) {
	u := &S3Uploader{cfg: config.S3Config{Prefix: "/cars/"}}
	key := u.objectKey("a.webp")
	assert.True(t, strings.HasPrefix(key, "cars/"))
	assert.True(t, strings.HasSuffix(key, ".webp"))

	u = &S3Uploader{cfg: config.S3Config{}}
	assert.NotContains(t, u.objectKey("a.webp"), "/")
}
