package transport

import (
	"context"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockTransport struct {
	mock.Mock
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) RequestUploadTarget(ctx context.Context, fileName, contentType string) (port.UploadTarget, error) {
	args := m.Called(ctx, fileName, contentType)
	return args.Get(0).(port.UploadTarget), args.Error(1)
}

func (m *MockTransport) TransferBytes(ctx context.Context, uploadURL string, file domain.FileHandle) error {
	args := m.Called(ctx, uploadURL, file)
	return args.Error(0)
}

func (m *MockTransport) RegisterJob(ctx context.Context, storageKey string, target domain.ConversionTarget, settings domain.JobSettings) (string, error) {
	args := m.Called(ctx, storageKey, target, settings)
	return args.String(0), args.Error(1)
}

func (m *MockTransport) FetchStatus(ctx context.Context, jobID string) (port.JobStatusReport, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(port.JobStatusReport), args.Error(1)
}
