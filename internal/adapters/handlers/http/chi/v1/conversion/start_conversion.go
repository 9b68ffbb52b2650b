package conversion

import (
	"encoding/json"
	"errors"
	"net/http"

	"convertflow/internal/core/domain"
)

// V1StartConversionRequest is the body request for start conversion
type V1StartConversionRequest struct {
	S3Key        string         `json:"s3_key"`
	TargetFormat string         `json:"target_format"`
	ToolSlug     string         `json:"tool_slug,omitempty"`
	Settings     map[string]any `json:"settings,omitempty"`
}

// V1StartConversionResponse is the response for start conversion
type V1StartConversionResponse struct {
	JobID string `json:"job_id"`
}

// StartConversionV1 registers a conversion job for an uploaded object
func (h *HandlerV1) StartConversionV1(w http.ResponseWriter, r *http.Request) {
	var req V1StartConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding start conversion request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.S3Key == "" || req.TargetFormat == "" {
		writeError(w, http.StatusBadRequest, "s3_key and target_format required")
		return
	}

	target := domain.ConversionTarget{Format: req.TargetFormat, ToolSlug: req.ToolSlug}
	jobID, err := h.backend.StartConversion(r.Context(), req.S3Key, target, req.Settings)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrObjectNotFound):
		h.logger.Warn("start conversion for unknown object", "key", req.S3Key)
		writeError(w, http.StatusBadRequest, "uploaded file not found")
	case err != nil:
		h.logger.Error("error starting conversion", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start conversion")
	default:
		writeJSON(w, http.StatusOK, V1StartConversionResponse{JobID: jobID})
	}
}
