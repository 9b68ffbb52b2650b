package port

import (
	"context"

	"convertflow/internal/core/domain"
)

// HistoryRepository stores terminal conversions
type HistoryRepository interface {
	Save(ctx context.Context, record domain.ConversionRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.ConversionRecord, error)
}
