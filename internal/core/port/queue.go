package port

import (
	"context"

	"convertflow/internal/core/domain"

	"github.com/google/uuid"
)

// QueueService is the collection of upload items seen by the presentation layer
type QueueService interface {
	AddFiles(ctx context.Context, files []domain.FileHandle) ([]domain.UploadItem, error)
	Start(ctx context.Context, id uuid.UUID, target domain.ConversionTarget) error
	StartAll(ctx context.Context, target domain.ConversionTarget) (int, error)
	OpenSettings(id uuid.UUID) (domain.EncodeSettings, error)
	SaveSettings(id uuid.UUID, settings domain.EncodeSettings) error
	CloseSettings(id uuid.UUID)
	List() []domain.UploadItem
	Get(id uuid.UUID) (domain.UploadItem, error)
	Remove(id uuid.UUID) error
	Subscribe(fn func(domain.ItemEvent)) (unsubscribe func())
	Wait()
}
