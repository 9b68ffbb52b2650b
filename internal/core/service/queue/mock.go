package queue

import (
	"context"

	"convertflow/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockQueueService is a mock implementation of QueueService
type MockQueueService struct {
	mock.Mock
}

func NewMockQueueService() *MockQueueService {
	return &MockQueueService{}
}

func (m *MockQueueService) AddFiles(ctx context.Context, files []domain.FileHandle) ([]domain.UploadItem, error) {
	args := m.Called(ctx, files)
	return args.Get(0).([]domain.UploadItem), args.Error(1)
}

func (m *MockQueueService) Start(ctx context.Context, id uuid.UUID, target domain.ConversionTarget) error {
	args := m.Called(ctx, id, target)
	return args.Error(0)
}

func (m *MockQueueService) StartAll(ctx context.Context, target domain.ConversionTarget) (int, error) {
	args := m.Called(ctx, target)
	return args.Int(0), args.Error(1)
}

func (m *MockQueueService) OpenSettings(id uuid.UUID) (domain.EncodeSettings, error) {
	args := m.Called(id)
	return args.Get(0).(domain.EncodeSettings), args.Error(1)
}

func (m *MockQueueService) SaveSettings(id uuid.UUID, settings domain.EncodeSettings) error {
	args := m.Called(id, settings)
	return args.Error(0)
}

func (m *MockQueueService) CloseSettings(id uuid.UUID) {
	m.Called(id)
}

func (m *MockQueueService) List() []domain.UploadItem {
	args := m.Called()
	return args.Get(0).([]domain.UploadItem)
}

func (m *MockQueueService) Get(id uuid.UUID) (domain.UploadItem, error) {
	args := m.Called(id)
	return args.Get(0).(domain.UploadItem), args.Error(1)
}

func (m *MockQueueService) Remove(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQueueService) Subscribe(fn func(domain.ItemEvent)) func() {
	args := m.Called(fn)
	return args.Get(0).(func())
}

func (m *MockQueueService) Wait() {
	m.Called()
}
