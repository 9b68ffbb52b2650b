package conversion_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	httpgo "net/http"
	"net/http/httptest"
	"testing"

	"convertflow/internal/adapters/handlers/http/chi"
	"convertflow/internal/adapters/handlers/http/chi/v1/conversion"
	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"
	"convertflow/internal/core/service/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*backend.MockConversionBackend, httpgo.Handler) {
	t.Helper()
	mockBackend := backend.NewMockConversionBackend()
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := conversion.NewConversionHandlerV1(mockBackend, discardLogger)
	return mockBackend, chi.NewBackendRouter(discardLogger, handler, chi.RouterOptions{})
}

func postJSON(t *testing.T, h httpgo.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(httpgo.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp conversion.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestGetUploadURLV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		mockBackend, h := setupRouter(t)
		mockBackend.On("CreateUploadTarget", mock.Anything, "clip.mp4", "video/mp4").
			Return(port.UploadTarget{UploadURL: "http://minio/put", StorageKey: "uploads/1/clip.mp4"}, nil)

		// Act
		w := postJSON(t, h, "/api/get-upload-url", conversion.V1GetUploadURLRequest{FileName: "clip.mp4", ContentType: "video/mp4"})

		// Assert
		require.Equal(t, httpgo.StatusOK, w.Code)
		var resp conversion.V1GetUploadURLResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "http://minio/put", resp.UploadURL)
		assert.Equal(t, "uploads/1/clip.mp4", resp.Key)
		mockBackend.AssertExpectations(t)
	})

	t.Run("missing file name", func(t *testing.T) {
		mockBackend, h := setupRouter(t)

		w := postJSON(t, h, "/api/get-upload-url", conversion.V1GetUploadURLRequest{ContentType: "video/mp4"})

		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
		assert.Equal(t, "file_name required", decodeError(t, w))
		mockBackend.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, h := setupRouter(t)
		req := httptest.NewRequest(httpgo.MethodPost, "/api/get-upload-url", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockBackend, h := setupRouter(t)
		mockBackend.On("CreateUploadTarget", mock.Anything, "a.png", "image/png").Return(port.UploadTarget{}, assert.AnError)

		w := postJSON(t, h, "/api/get-upload-url", conversion.V1GetUploadURLRequest{FileName: "a.png", ContentType: "image/png"})

		assert.Equal(t, httpgo.StatusInternalServerError, w.Code)
		assert.Equal(t, "could not create upload url", decodeError(t, w))
	})
}

func TestStartConversionV1(t *testing.T) {
	t.Run("nominal with settings", func(t *testing.T) {
		// Arrange
		mockBackend, h := setupRouter(t)
		settings := map[string]any{"codec": "h264", "frameRate": float64(30)}
		mockBackend.On("StartConversion", mock.Anything, "uploads/1/clip.mp4",
			domain.ConversionTarget{Format: "webm", ToolSlug: "video-converter"}, settings).Return("job-1", nil)

		// Act
		w := postJSON(t, h, "/api/start-conversion", conversion.V1StartConversionRequest{
			S3Key:        "uploads/1/clip.mp4",
			TargetFormat: "webm",
			ToolSlug:     "video-converter",
			Settings:     settings,
		})

		// Assert
		require.Equal(t, httpgo.StatusOK, w.Code)
		var resp conversion.V1StartConversionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "job-1", resp.JobID)
		mockBackend.AssertExpectations(t)
	})

	t.Run("missing target format", func(t *testing.T) {
		mockBackend, h := setupRouter(t)

		w := postJSON(t, h, "/api/start-conversion", conversion.V1StartConversionRequest{S3Key: "uploads/1/a.png"})

		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
		mockBackend.AssertExpectations(t)
	})

	t.Run("unknown object", func(t *testing.T) {
		mockBackend, h := setupRouter(t)
		mockBackend.On("StartConversion", mock.Anything, "uploads/x", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: uploads/x", domain.ErrObjectNotFound))

		w := postJSON(t, h, "/api/start-conversion", conversion.V1StartConversionRequest{S3Key: "uploads/x", TargetFormat: "png"})

		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
		assert.Equal(t, "uploaded file not found", decodeError(t, w))
	})

	t.Run("internal error", func(t *testing.T) {
		mockBackend, h := setupRouter(t)
		mockBackend.On("StartConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

		w := postJSON(t, h, "/api/start-conversion", conversion.V1StartConversionRequest{S3Key: "uploads/x", TargetFormat: "png"})

		assert.Equal(t, httpgo.StatusInternalServerError, w.Code)
	})
}

func TestStatusV1(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		// Arrange
		mockBackend, h := setupRouter(t)
		mockBackend.On("Status", mock.Anything, "job-1").Return(port.JobStatusReport{
			JobID:       "job-1",
			Status:      "completed",
			Progress:    100,
			OutputKey:   "converted/job-1.webm",
			DownloadURL: "http://minio/get",
		}, nil)
		req := httptest.NewRequest(httpgo.MethodGet, "/api/status/job-1", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, httpgo.StatusOK, w.Code)
		var resp conversion.V1StatusResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, 100.0, resp.Progress)
		assert.Equal(t, "converted/job-1.webm", resp.OutputS3Key)
		assert.Equal(t, "http://minio/get", resp.FileURL)
		mockBackend.AssertExpectations(t)
	})

	t.Run("unknown job", func(t *testing.T) {
		mockBackend, h := setupRouter(t)
		mockBackend.On("Status", mock.Anything, "nope").Return(port.JobStatusReport{}, fmt.Errorf("%w: nope", domain.ErrJobNotFound))
		req := httptest.NewRequest(httpgo.MethodGet, "/api/status/nope", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, httpgo.StatusNotFound, w.Code)
		assert.Equal(t, "job not found", decodeError(t, w))
	})

	t.Run("internal error", func(t *testing.T) {
		mockBackend, h := setupRouter(t)
		mockBackend.On("Status", mock.Anything, "job-1").Return(port.JobStatusReport{}, assert.AnError)
		req := httptest.NewRequest(httpgo.MethodGet, "/api/status/job-1", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, httpgo.StatusInternalServerError, w.Code)
	})
}
