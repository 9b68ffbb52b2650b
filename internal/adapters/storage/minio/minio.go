package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"convertflow/internal/config"
	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

var _ port.ObjectStorage = (*Adapter)(nil)

// NewAdapter returns Adapter, creating the bucket when missing
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// PresignUpload generates a presigned PUT url. The content type is not signed,
// so the uploader may send whatever it declared.
func (a *Adapter) PresignUpload(ctx context.Context, key string, contentType string) (string, *time.Time, error) {
	presignedURL, err := a.client.PresignedPutObject(ctx, a.config.BucketName, key, a.config.UploadPresignedDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.UploadPresignedDuration)
	a.logger.Debug("upload url presigned", "key", key, "content_type", contentType)
	return presignedURL.String(), &expiresAt, nil
}

// PresignDownload generates a presigned URL for downloading a file
func (a *Adapter) PresignDownload(ctx context.Context, key string) (string, *time.Time, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, a.config.DownloadSignedURLDuration, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.DownloadSignedURLDuration)
	return presignedURL.String(), &expiresAt, nil
}

// StatObject retrieves obj info
func (a *Adapter) StatObject(ctx context.Context, key string) (*port.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to get object info: %w", err)
	}
	return &port.ObjectInfo{Key: info.Key, Size: info.Size, ContentType: info.ContentType}, nil
}

// CopyObject copies srcKey to dstKey inside the bucket
func (a *Adapter) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	dst := minio.CopyDestOptions{Bucket: a.config.BucketName, Object: dstKey}
	src := minio.CopySrcOptions{Bucket: a.config.BucketName, Object: srcKey}

	if _, err := a.client.CopyObject(ctx, dst, src); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, srcKey)
		}
		return fmt.Errorf("failed to copy object: %w", err)
	}

	a.logger.Info("object copied",
		slog.String("src", srcKey),
		slog.String("dst", dstKey),
		slog.String("bucket", a.config.BucketName))
	return nil
}

// GetObject retrieves an obj
func (a *Adapter) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey"
}
