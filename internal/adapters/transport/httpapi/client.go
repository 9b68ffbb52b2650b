// Package httpapi talks to the conversion service over its JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"

	"github.com/go-playground/validator/v10"
)

const (
	pathUploadURL       = "/api/get-upload-url"
	pathStartConversion = "/api/start-conversion"
	pathStatus          = "/api/status/"

	defaultContentType = "application/octet-stream"
	maxErrorBody       = 64 << 10
)

// Options configures a Client
type Options struct {
	// Timeout bounds each API call. Zero means no timeout.
	Timeout time.Duration
	// TransferTimeout bounds the raw byte upload. Zero means no timeout.
	TransferTimeout time.Duration
}

// Client implements port.ConversionTransport. It keeps no per-job state and never retries.
type Client struct {
	baseURL  string
	api      *http.Client
	transfer *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

var _ port.ConversionTransport = (*Client)(nil)

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts Options, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	return &Client{
		baseURL:  strings.TrimRight(u.String(), "/"),
		api:      &http.Client{Timeout: opts.Timeout},
		transfer: &http.Client{Timeout: opts.TransferTimeout},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}, nil
}

type uploadURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type uploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

type startConversionRequest struct {
	S3Key        string `json:"s3_key"`
	TargetFormat string `json:"target_format"`
	ToolSlug     string `json:"tool_slug,omitempty"`
	Settings     any    `json:"settings,omitempty"`
}

type startConversionResponse struct {
	JobID       string `json:"job_id"`
	LegacyJobID string `json:"jobId"`
}

type statusResponse struct {
	JobID       string  `json:"job_id"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	Message     string  `json:"message"`
	OutputS3Key string  `json:"output_s3_key"`
	FileURL     string  `json:"file_url"`
}

// RequestUploadTarget asks the service where to PUT the file bytes
func (c *Client) RequestUploadTarget(ctx context.Context, fileName, contentType string) (port.UploadTarget, error) {
	var resp uploadURLResponse
	body := uploadURLRequest{FileName: fileName, ContentType: contentType}
	if err := c.doJSON(ctx, domain.OpRequestUploadTarget, http.MethodPost, pathUploadURL, body, &resp); err != nil {
		return port.UploadTarget{}, err
	}
	if resp.UploadURL == "" || resp.Key == "" {
		return port.UploadTarget{}, &domain.TransportError{
			Op:  domain.OpRequestUploadTarget,
			Err: errors.New("response is missing upload_url or key"),
		}
	}
	return port.UploadTarget{UploadURL: resp.UploadURL, StorageKey: resp.Key}, nil
}

// TransferBytes PUTs the raw file to uploadURL
func (c *Client) TransferBytes(ctx context.Context, uploadURL string, file domain.FileHandle) error {
	rc, err := file.Open()
	if err != nil {
		return &domain.TransportError{Op: domain.OpTransferBytes, Err: fmt.Errorf("open %s: %w", file.Name(), err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, rc)
	if err != nil {
		rc.Close()
		return &domain.TransportError{Op: domain.OpTransferBytes, Err: err}
	}
	req.ContentLength = file.Size()
	contentType := file.ContentType()
	if contentType == "" {
		contentType = defaultContentType
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.transfer.Do(req)
	if err != nil {
		return &domain.TransportError{Op: domain.OpTransferBytes, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(domain.OpTransferBytes, resp); err != nil {
		return err
	}
	c.logger.Debug("bytes transferred", "file_name", file.Name(), "size", file.Size(), "duration", time.Since(start))
	return nil
}

// RegisterJob declares the conversion of the uploaded object.
// Settings are validated before any request is sent.
func (c *Client) RegisterJob(ctx context.Context, storageKey string, target domain.ConversionTarget, settings domain.JobSettings) (string, error) {
	if settings != nil {
		if err := c.validate.Struct(settings); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidSettings, err)
		}
	}

	body := startConversionRequest{
		S3Key:        storageKey,
		TargetFormat: target.Format,
		ToolSlug:     target.ToolSlug,
	}
	if settings != nil {
		body.Settings = settings
	}

	var resp startConversionResponse
	if err := c.doJSON(ctx, domain.OpRegisterJob, http.MethodPost, pathStartConversion, body, &resp); err != nil {
		return "", err
	}

	jobID := resp.JobID
	if jobID == "" {
		jobID = resp.LegacyJobID
	}
	if jobID == "" {
		return "", &domain.TransportError{Op: domain.OpRegisterJob, Err: errors.New("response is missing job_id")}
	}
	return jobID, nil
}

// FetchStatus reads the current state of a job
func (c *Client) FetchStatus(ctx context.Context, jobID string) (port.JobStatusReport, error) {
	var resp statusResponse
	if err := c.doJSON(ctx, domain.OpFetchStatus, http.MethodGet, pathStatus+url.PathEscape(jobID), nil, &resp); err != nil {
		return port.JobStatusReport{}, err
	}
	if resp.JobID == "" {
		resp.JobID = jobID
	}
	return port.JobStatusReport{
		JobID:       resp.JobID,
		Status:      resp.Status,
		Progress:    resp.Progress,
		Message:     resp.Message,
		OutputKey:   resp.OutputS3Key,
		DownloadURL: resp.FileURL,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &domain.TransportError{Op: op, Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		c.logger.Debug("api call failed", "op", op, "status", resp.StatusCode)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.TransportError{
		Op:            op,
		StatusCode:    resp.StatusCode,
		RemoteMessage: remoteMessage(raw),
	}
}

// remoteMessage extracts a human readable message from a JSON error body
func remoteMessage(raw []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message", "detail"} {
		if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
