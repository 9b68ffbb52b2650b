package port

import (
	"context"

	"convertflow/internal/core/domain"
)

// UploadTarget is where the raw bytes of a file must be PUT
type UploadTarget struct {
	UploadURL  string
	StorageKey string
}

// JobStatusReport is one observation of a remote conversion job
type JobStatusReport struct {
	JobID       string
	Status      string
	Progress    float64
	Message     string
	OutputKey   string
	DownloadURL string
}

// ConversionTransport is the remote conversion service. Implementations are stateless and
// never retry; every failure is a *domain.TransportError.
type ConversionTransport interface {
	RequestUploadTarget(ctx context.Context, fileName, contentType string) (UploadTarget, error)
	TransferBytes(ctx context.Context, uploadURL string, file domain.FileHandle) error
	RegisterJob(ctx context.Context, storageKey string, target domain.ConversionTarget, settings domain.JobSettings) (string, error)
	FetchStatus(ctx context.Context, jobID string) (JobStatusReport, error)
}
