// Package storage uploads car images to the configured object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"fourwheeler-backend/internal/config"

	"github.com/google/uuid"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// New builds the uploader for cfg.Provider. It returns nil when no provider
// is configured.
func New(ctx context.Context, cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case config.StorageCloudinary:
		return NewCloudinaryUploader(cfg.Cloudinary)
	case config.StorageS3:
		return NewS3Uploader(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

// objectName returns a collision-free name that keeps the original extension.
func objectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return uuid.NewString() + ext
}
