package backend

import (
	"context"
	"fmt"
	"strings"

	"convertflow/internal/core/domain"

	"github.com/google/uuid"
)

// StartConversion registers a job for an uploaded object
func (b *backendService) StartConversion(ctx context.Context, storageKey string, target domain.ConversionTarget, settings map[string]any) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(target.Format), "."))
	if storageKey == "" || format == "" {
		return "", fmt.Errorf("%w: s3_key and target_format are required", domain.ErrInvalidRequest)
	}
	if !strings.HasPrefix(storageKey, UploadPrefix+"/") {
		return "", fmt.Errorf("%w: %s", domain.ErrObjectNotFound, storageKey)
	}

	if _, err := b.storage.StatObject(ctx, storageKey); err != nil {
		return "", err
	}

	job := &conversionJob{
		id:        uuid.NewString(),
		sourceKey: storageKey,
		format:    format,
		toolSlug:  target.ToolSlug,
		settings:  settings,
		state:     jobQueued,
		createdAt: b.now(),
	}

	b.mu.Lock()
	b.jobs[job.id] = job
	b.mu.Unlock()

	b.logger.Info("conversion job registered", "job_id", job.id, "key", storageKey, "format", format, "tool_slug", target.ToolSlug)
	return job.id, nil
}
