package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type S3Uploader struct {
	uploader *manager.Uploader
	cfg      config.S3Config
}

// NewS3Uploader loads credentials from the default AWS provider chain.
func NewS3Uploader(ctx context.Context, cfg config.S3Config) (*S3Uploader, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for S3: %w", err)
	}

	logger.Info("S3 uploader initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region),
	)

	return &S3Uploader{
		uploader: manager.NewUploader(s3.NewFromConfig(awsCfg)),
		cfg:      cfg,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := u.objectKey(filename)

	out, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	if u.cfg.PublicBaseURL != "" {
		return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key, nil
	}
	return out.Location, nil
}

func (u *S3Uploader) objectKey(filename string) string {
	name := objectName(filename)
	prefix := strings.Trim(u.cfg.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
