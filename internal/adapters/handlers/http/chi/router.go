package chi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"convertflow/internal/adapters/handlers/http/chi/v1/conversion"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions tunes the shared middleware stack
type RouterOptions struct {
	Env     string
	Timeout time.Duration
	// MaxBody limits request bodies. Zero disables the limit.
	MaxBody int64
	Metrics *Metrics
}

// NewBackendRouter serves the conversion API under /api
func NewBackendRouter(logger *slog.Logger, conversionHandler *conversion.HandlerV1, opts RouterOptions) http.Handler {
	r := newRouter(logger, opts)

	r.Mount("/api", conversionHandler.Routes())

	return r
}

// NewProxyRouter forwards /api/* to upstream
func NewProxyRouter(logger *slog.Logger, upstream http.Handler, opts RouterOptions) http.Handler {
	r := newRouter(logger, opts)

	r.Handle("/api/*", upstream)

	return r
}

func newRouter(logger *slog.Logger, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}
	if opts.MaxBody > 0 {
		r.Use(middleware.RequestSize(opts.MaxBody))
	}

	if opts.Env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
