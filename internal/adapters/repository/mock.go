package repository

import (
	"context"

	"convertflow/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockHistoryRepository struct {
	mock.Mock
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Save(ctx context.Context, record domain.ConversionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ConversionRecord), args.Error(1)
}
