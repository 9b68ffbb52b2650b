package minio_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"convertflow/internal/adapters/storage/minio"
	"convertflow/internal/config"
	"convertflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAccessKey = "minioadmin"
	testSecretKey = "minioadmin"
	testBucket    = "test-bucket"
)

func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     testAccessKey,
			"MINIO_ROOT_PASSWORD": testSecretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000"),
	}
	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := minioContainer.Host(ctx)
	require.NoError(t, err)

	port, err := minioContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	cleanup := func() {
		if err := minioContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return endpoint, cleanup
}

func createAdapter(t *testing.T, endpoint string, ctx context.Context) *minio.Adapter {
	t.Helper()
	cfg := config.MinioConfig{
		Endpoint:                  endpoint,
		AccessKey:                 testAccessKey,
		SecretKey:                 testSecretKey,
		BucketName:                testBucket,
		UseSSL:                    false,
		UploadPresignedDuration:   15 * time.Minute,
		DownloadSignedURLDuration: 15 * time.Minute,
	}

	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	adapter, err := minio.NewAdapter(ctx, cfg, discardLogger)

	require.NoError(t, err)
	require.NotNil(t, adapter)

	return adapter
}

func put(t *testing.T, presignedURL, contentType, body string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, presignedURL, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPresignUploadAndCopy(t *testing.T) {
	// Arrange
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	adapter := createAdapter(t, endpoint, ctx)

	srcKey := "uploads/abc/notes.txt"
	dstKey := "converted/job-1.pdf"
	content := "Hello, MinIO!"

	// Act
	presignedURL, expiresAt, err := adapter.PresignUpload(ctx, srcKey, "text/plain")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, expiresAt)
	assert.True(t, expiresAt.After(time.Now()))
	u, err := url.Parse(presignedURL)
	require.NoError(t, err)
	assert.Equal(t, "AWS4-HMAC-SHA256", u.Query().Get("X-Amz-Algorithm"))

	// Act
	put(t, presignedURL, "text/plain", content)
	info, err := adapter.StatObject(ctx, srcKey)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "text/plain", info.ContentType)

	// Act
	err = adapter.CopyObject(ctx, srcKey, dstKey)

	// Assert
	require.NoError(t, err)
	object, err := adapter.GetObject(ctx, dstKey)
	require.NoError(t, err)
	defer object.Close()
	buf := new(strings.Builder)
	_, err = io.Copy(buf, object)
	require.NoError(t, err)
	assert.Equal(t, content, buf.String())
}

func TestPresignDownload(t *testing.T) {
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	adapter := createAdapter(t, endpoint, ctx)

	uploadURL, _, err := adapter.PresignUpload(ctx, "uploads/x/a.txt", "text/plain")
	require.NoError(t, err)
	put(t, uploadURL, "text/plain", "payload")

	downloadURL, expiresAt, err := adapter.PresignDownload(ctx, "uploads/x/a.txt")
	require.NoError(t, err)
	require.NotNil(t, expiresAt)

	resp, err := http.Get(downloadURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "payload", string(body))
}

func TestStatObject_NotFound(t *testing.T) {
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	adapter := createAdapter(t, endpoint, ctx)

	_, statErr := adapter.StatObject(ctx, "uploads/missing.bin")
	copyErr := adapter.CopyObject(ctx, "uploads/missing.bin", "converted/x.bin")

	assert.ErrorIs(t, statErr, domain.ErrObjectNotFound)
	assert.ErrorIs(t, copyErr, domain.ErrObjectNotFound)
}
