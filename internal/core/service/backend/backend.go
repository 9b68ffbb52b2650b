// Package backend is a small conversion service used for local development and end to end tests.
// Uploaded objects are "converted" by a server side copy; jobs live in memory.
package backend

import (
	"log/slog"
	"sync"
	"time"

	"convertflow/internal/core/port"
)

const (
	// UploadPrefix is where upload targets are created
	UploadPrefix = "uploads"
	// OutputPrefix is where converted objects are written
	OutputPrefix = "converted"
)

type jobState string

const (
	jobQueued     jobState = "queued"
	jobProcessing jobState = "processing"
	jobCompleted  jobState = "completed"
	jobFailed     jobState = "failed"
)

type conversionJob struct {
	id        string
	sourceKey string
	format    string
	toolSlug  string
	settings  map[string]any
	state     jobState
	progress  float64
	message   string
	outputKey string
	createdAt time.Time
}

type backendService struct {
	storage port.ObjectStorage
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	jobs map[string]*conversionJob
}

// NewBackendService creates a new conversion backend over storage
func NewBackendService(storage port.ObjectStorage, logger *slog.Logger) port.ConversionBackend {
	return &backendService{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		jobs:    make(map[string]*conversionJob),
	}
}
