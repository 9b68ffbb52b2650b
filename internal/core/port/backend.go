package port

import (
	"context"
	"time"

	"convertflow/internal/core/domain"
)

// ConversionBackend is the server side of the conversion API
type ConversionBackend interface {
	CreateUploadTarget(ctx context.Context, fileName, contentType string) (UploadTarget, error)
	StartConversion(ctx context.Context, storageKey string, target domain.ConversionTarget, settings map[string]any) (string, error)
	Status(ctx context.Context, jobID string) (JobStatusReport, error)
	// ExpireJobs forgets jobs registered before the given time and returns how many were dropped
	ExpireJobs(ctx context.Context, before time.Time) int
}
