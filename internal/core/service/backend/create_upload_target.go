package backend

import (
	"context"
	"fmt"
	"path"
	"strings"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"

	"github.com/google/uuid"
)

// CreateUploadTarget presigns a PUT under uploads/<uuid>/<name>
func (b *backendService) CreateUploadTarget(ctx context.Context, fileName, contentType string) (port.UploadTarget, error) {
	name := sanitizeName(fileName)
	if name == "" {
		return port.UploadTarget{}, fmt.Errorf("%w: file_name is required", domain.ErrInvalidRequest)
	}

	key := path.Join(UploadPrefix, uuid.NewString(), name)
	url, _, err := b.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		return port.UploadTarget{}, fmt.Errorf("presign upload: %w", err)
	}

	b.logger.Info("upload target created", "key", key, "content_type", contentType)
	return port.UploadTarget{UploadURL: url, StorageKey: key}, nil
}

// sanitizeName keeps the base name only, so a client cannot escape its prefix
func sanitizeName(fileName string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
