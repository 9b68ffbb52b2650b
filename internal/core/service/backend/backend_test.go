package backend_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"convertflow/internal/adapters/storage"
	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"
	"convertflow/internal/core/service/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBackendService_CreateUploadTarget(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		mockStorage := storage.NewMockStorage()
		expiresAt := time.Now().Add(15 * time.Minute)
		mockStorage.On("PresignUpload", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "uploads/") && strings.HasSuffix(key, "/report.pdf")
		}), "application/pdf").Return("https://minio/put", &expiresAt, nil)
		svc := backend.NewBackendService(mockStorage, slog.Default())

		// Act
		target, err := svc.CreateUploadTarget(ctx, "../../etc/report.pdf", "application/pdf")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "https://minio/put", target.UploadURL)
		assert.True(t, strings.HasPrefix(target.StorageKey, "uploads/"))
		assert.True(t, strings.HasSuffix(target.StorageKey, "/report.pdf"))
		mockStorage.AssertExpectations(t)
	})

	t.Run("missing name", func(t *testing.T) {
		mockStorage := storage.NewMockStorage()
		svc := backend.NewBackendService(mockStorage, slog.Default())

		_, err := svc.CreateUploadTarget(context.Background(), "  ", "image/png")

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		mockStorage.AssertNotCalled(t, "PresignUpload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage error", func(t *testing.T) {
		mockStorage := storage.NewMockStorage()
		mockStorage.On("PresignUpload", mock.Anything, mock.Anything, mock.Anything).
			Return("", (*time.Time)(nil), errors.New("minio down"))
		svc := backend.NewBackendService(mockStorage, slog.Default())

		_, err := svc.CreateUploadTarget(context.Background(), "a.png", "image/png")

		assert.Error(t, err)
	})
}

func TestBackendService_StartConversion(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		svc := backend.NewBackendService(storage.NewMockStorage(), slog.Default())

		_, err := svc.StartConversion(context.Background(), "", domain.ConversionTarget{Format: "pdf"}, nil)

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("key outside upload prefix", func(t *testing.T) {
		svc := backend.NewBackendService(storage.NewMockStorage(), slog.Default())

		_, err := svc.StartConversion(context.Background(), "converted/x.pdf", domain.ConversionTarget{Format: "pdf"}, nil)

		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	t.Run("object missing", func(t *testing.T) {
		mockStorage := storage.NewMockStorage()
		mockStorage.On("StatObject", mock.Anything, "uploads/x/a.png").
			Return((*port.ObjectInfo)(nil), domain.ErrObjectNotFound)
		svc := backend.NewBackendService(mockStorage, slog.Default())

		_, err := svc.StartConversion(context.Background(), "uploads/x/a.png", domain.ConversionTarget{Format: "webp"}, nil)

		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})
}

func TestBackendService_Status(t *testing.T) {
	t.Run("job walks to completion", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		mockStorage := storage.NewMockStorage()
		mockStorage.On("StatObject", ctx, "uploads/x/a.png").
			Return(&port.ObjectInfo{Key: "uploads/x/a.png", Size: 3, ContentType: "image/png"}, nil)
		mockStorage.On("CopyObject", ctx, "uploads/x/a.png", mock.MatchedBy(func(dst string) bool {
			return strings.HasPrefix(dst, "converted/") && strings.HasSuffix(dst, ".webp")
		})).Return(nil).Once()
		expiresAt := time.Now().Add(time.Hour)
		mockStorage.On("PresignDownload", ctx, mock.Anything).Return("https://minio/get", &expiresAt, nil)
		svc := backend.NewBackendService(mockStorage, slog.Default())

		jobID, err := svc.StartConversion(ctx, "uploads/x/a.png", domain.ConversionTarget{Format: ".WEBP"}, map[string]any{"quality": 80})
		require.NoError(t, err)

		// Act
		first, err := svc.Status(ctx, jobID)
		require.NoError(t, err)
		second, err := svc.Status(ctx, jobID)
		require.NoError(t, err)
		third, err := svc.Status(ctx, jobID)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, "processing", first.Status)
		assert.Equal(t, float64(50), first.Progress)
		assert.Equal(t, "completed", second.Status)
		assert.Equal(t, float64(100), second.Progress)
		assert.Equal(t, "converted/"+jobID+".webp", second.OutputKey)
		assert.Equal(t, "https://minio/get", second.DownloadURL)
		assert.Equal(t, second, third)
		mockStorage.AssertNumberOfCalls(t, "CopyObject", 1)
	})

	t.Run("copy failure fails the job", func(t *testing.T) {
		mockStorage := storage.NewMockStorage()
		mockStorage.On("StatObject", mock.Anything, "uploads/x/a.png").Return(&port.ObjectInfo{}, nil)
		mockStorage.On("CopyObject", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
		svc := backend.NewBackendService(mockStorage, slog.Default())
		jobID, err := svc.StartConversion(context.Background(), "uploads/x/a.png", domain.ConversionTarget{Format: "webp"}, nil)
		require.NoError(t, err)

		_, err = svc.Status(context.Background(), jobID)
		require.NoError(t, err)
		status, err := svc.Status(context.Background(), jobID)

		require.NoError(t, err)
		assert.Equal(t, "failed", status.Status)
		assert.Equal(t, "conversion failed", status.Message)
		assert.Empty(t, status.OutputKey)
	})

	t.Run("unknown job", func(t *testing.T) {
		svc := backend.NewBackendService(storage.NewMockStorage(), slog.Default())

		_, err := svc.Status(context.Background(), "nope")

		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})
}

func TestBackendService_ExpireJobs(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	mockStorage.On("StatObject", mock.Anything, "uploads/x/a.png").Return(&port.ObjectInfo{}, nil)
	svc := backend.NewBackendService(mockStorage, slog.Default())
	jobID, err := svc.StartConversion(ctx, "uploads/x/a.png", domain.ConversionTarget{Format: "webp"}, nil)
	require.NoError(t, err)

	// Act
	kept := svc.ExpireJobs(ctx, time.Now().Add(-time.Hour))
	expired := svc.ExpireJobs(ctx, time.Now().Add(time.Second))

	// Assert
	assert.Zero(t, kept)
	assert.Equal(t, 1, expired)
	_, err = svc.Status(ctx, jobID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
