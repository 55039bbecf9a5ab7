package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fourwheeler-backend/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: cfg.Folder}, nil
}

// Upload ignores filename; Cloudinary detects the format from the content.
func (u *CloudinaryUploader) Upload(ctx context.Context, _, _ string, body io.Reader) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:       u.folder,
		PublicID:     uuid.NewString(),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", errors.New(res.Error.Message))
	}
	return res.SecureURL, nil
}
