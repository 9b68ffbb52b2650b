package conversion

import (
	"errors"
	"net/http"
	"net/url"

	"convertflow/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// V1StatusResponse is the response for job status
type V1StatusResponse struct {
	JobID       string  `json:"job_id"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	Message     string  `json:"message,omitempty"`
	OutputS3Key string  `json:"output_s3_key,omitempty"`
	FileURL     string  `json:"file_url,omitempty"`
}

// StatusV1 reports a conversion job
func (h *HandlerV1) StatusV1(w http.ResponseWriter, r *http.Request) {
	jobID, err := url.PathUnescape(chi.URLParam(r, "jobId"))
	if err != nil || jobID == "" {
		writeError(w, http.StatusBadRequest, "job id required")
		return
	}

	report, err := h.backend.Status(r.Context(), jobID)
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "job not found")
	case err != nil:
		h.logger.Error("error fetching job status", "job_id", jobID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch status")
	default:
		writeJSON(w, http.StatusOK, V1StatusResponse{
			JobID:       report.JobID,
			Status:      report.Status,
			Progress:    report.Progress,
			Message:     report.Message,
			OutputS3Key: report.OutputKey,
			FileURL:     report.DownloadURL,
		})
	}
}
