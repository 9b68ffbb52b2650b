package chi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	httpgo "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"convertflow/internal/adapters/handlers/http/chi"
	"convertflow/internal/adapters/handlers/http/chi/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProxy(t *testing.T, upstream httpgo.HandlerFunc) httpgo.Handler {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, err := proxy.NewHandler(server.URL, nil, discardLogger)
	require.NoError(t, err)

	return chi.NewProxyRouter(discardLogger, handler, chi.RouterOptions{Metrics: chi.NewMetrics("test")})
}

func TestProxyRouter(t *testing.T) {
	t.Run("forwards method body and headers untouched", func(t *testing.T) {
		// Arrange
		var gotMethod, gotPath, gotContentType, gotBody string
		h := setupProxy(t, func(w httpgo.ResponseWriter, r *httpgo.Request) {
			body, _ := io.ReadAll(r.Body)
			gotMethod, gotPath, gotContentType, gotBody = r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(httpgo.StatusOK)
			w.Write([]byte(`{"job_id":"j1"}`))
		})
		payload := `{"s3_key":"uploads/1/a.png","target_format":"webp"}`
		req := httptest.NewRequest(httpgo.MethodPost, "/api/start-conversion", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, httpgo.MethodPost, gotMethod)
		assert.Equal(t, "/api/start-conversion", gotPath)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, payload, gotBody)
		assert.Equal(t, httpgo.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"job_id":"j1"}`, w.Body.String())
	})

	t.Run("mirrors upstream errors", func(t *testing.T) {
		h := setupProxy(t, func(w httpgo.ResponseWriter, r *httpgo.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(httpgo.StatusNotFound)
			w.Write([]byte(`{"error":"job not found"}`))
		})
		req := httptest.NewRequest(httpgo.MethodGet, "/api/status/unknown", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, httpgo.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"job not found"}`, w.Body.String())
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		server := httptest.NewServer(httpgo.NotFoundHandler())
		server.Close()
		handler, err := proxy.NewHandler(server.URL, nil, discardLogger)
		require.NoError(t, err)
		h := chi.NewProxyRouter(discardLogger, handler, chi.RouterOptions{})
		req := httptest.NewRequest(httpgo.MethodPost, "/api/get-upload-url", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, httpgo.StatusBadGateway, w.Code)
	})

	t.Run("paths outside api are not forwarded", func(t *testing.T) {
		called := false
		h := setupProxy(t, func(w httpgo.ResponseWriter, r *httpgo.Request) { called = true })
		req := httptest.NewRequest(httpgo.MethodGet, "/other", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, httpgo.StatusNotFound, w.Code)
		assert.False(t, called)
	})
}

func TestNewHandler_InvalidUpstream(t *testing.T) {
	_, err := proxy.NewHandler("not a url", nil, slog.Default())

	assert.Error(t, err)
}

func TestHealthAndMetrics(t *testing.T) {
	// Arrange
	h := setupProxy(t, func(w httpgo.ResponseWriter, r *httpgo.Request) {
		w.WriteHeader(httpgo.StatusOK)
	})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(httpgo.MethodGet, "/api/status/j1", nil))

	// Act
	health := httptest.NewRecorder()
	h.ServeHTTP(health, httptest.NewRequest(httpgo.MethodGet, "/health", nil))
	metrics := httptest.NewRecorder()
	h.ServeHTTP(metrics, httptest.NewRequest(httpgo.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(t, httpgo.StatusOK, health.Code)
	var resp chi.HealthResponse
	require.NoError(t, json.NewDecoder(health.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)

	require.Equal(t, httpgo.StatusOK, metrics.Code)
	body := metrics.Body.String()
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/api/*",status="200"} 1`)
	assert.NotContains(t, body, `route="/health"`)
}
