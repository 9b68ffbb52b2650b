package port

import (
	"context"
	"time"
)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStorage is an interface to define object storage interactions used by the backend
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key string, contentType string) (string, *time.Time, error)
	PresignDownload(ctx context.Context, key string) (string, *time.Time, error)
	StatObject(ctx context.Context, key string) (*ObjectInfo, error)
	CopyObject(ctx context.Context, srcKey, dstKey string) error
}
