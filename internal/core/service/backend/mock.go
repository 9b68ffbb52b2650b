package backend

import (
	"context"
	"time"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"

	"github.com/stretchr/testify/mock"
)

// MockConversionBackend is a mock for port.ConversionBackend
type MockConversionBackend struct {
	mock.Mock
}

func NewMockConversionBackend() *MockConversionBackend {
	return &MockConversionBackend{}
}

func (m *MockConversionBackend) CreateUploadTarget(ctx context.Context, fileName, contentType string) (port.UploadTarget, error) {
	args := m.Called(ctx, fileName, contentType)
	return args.Get(0).(port.UploadTarget), args.Error(1)
}

func (m *MockConversionBackend) StartConversion(ctx context.Context, storageKey string, target domain.ConversionTarget, settings map[string]any) (string, error) {
	args := m.Called(ctx, storageKey, target, settings)
	return args.String(0), args.Error(1)
}

func (m *MockConversionBackend) Status(ctx context.Context, jobID string) (port.JobStatusReport, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(port.JobStatusReport), args.Error(1)
}

func (m *MockConversionBackend) ExpireJobs(ctx context.Context, before time.Time) int {
	args := m.Called(ctx, before)
	return args.Int(0)
}
