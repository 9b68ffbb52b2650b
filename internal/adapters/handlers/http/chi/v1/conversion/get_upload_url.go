package conversion

import (
	"encoding/json"
	"errors"
	"net/http"

	"convertflow/internal/core/domain"
)

// V1GetUploadURLRequest is the body request for get upload url
type V1GetUploadURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// V1GetUploadURLResponse is the response for get upload url
type V1GetUploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

// GetUploadURLV1 hands out a presigned PUT target
func (h *HandlerV1) GetUploadURLV1(w http.ResponseWriter, r *http.Request) {
	var req V1GetUploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding get upload url request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "file_name required")
		return
	}

	target, err := h.backend.CreateUploadTarget(r.Context(), req.FileName, req.ContentType)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("error creating upload target", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create upload url")
	default:
		writeJSON(w, http.StatusOK, V1GetUploadURLResponse{UploadURL: target.UploadURL, Key: target.StorageKey})
	}
}
