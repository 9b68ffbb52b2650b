package conversion

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"convertflow/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 serves the conversion API consumed by the transport client
type HandlerV1 struct {
	backend port.ConversionBackend
	logger  *slog.Logger
}

// NewConversionHandlerV1 creates HandlerV1
func NewConversionHandlerV1(backend port.ConversionBackend, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		backend: backend,
		logger:  logger,
	}
}

// Routes exposes routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/get-upload-url", h.GetUploadURLV1)
	router.Post("/start-conversion", h.StartConversionV1)
	router.Get("/status/{jobId}", h.StatusV1)

	return router
}

// ErrorResponse is the body of every failed call
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
