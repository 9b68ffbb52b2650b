package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/locale"
	"convertflow/internal/core/port"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UploadProgress is the indicative progress shown while bytes are transferred
const UploadProgress = 10.0

// Options tunes a Runner
type Options struct {
	Schedule    Schedule
	PollFailure PollFailurePolicy
	// Locale translates fallback error messages, English when nil.
	Locale *locale.Context
}

// Runner drives items through the conversion service. One Runner serves any number
// of concurrent items; each Run owns its item until it returns.
type Runner struct {
	transport port.ConversionTransport
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

// NewRunner creates a Runner
func NewRunner(transport port.ConversionTransport, opts Options, logger *slog.Logger) *Runner {
	if opts.PollFailure == nil {
		opts.PollFailure = FailOnFirstError
	}
	return &Runner{
		transport: transport,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Run converts one waiting item and returns its terminal snapshot. report receives a
// snapshot after every change. Items that are not waiting are returned untouched.
func (r *Runner) Run(ctx context.Context, item domain.UploadItem, file domain.FileHandle, target domain.ConversionTarget, report func(domain.UploadItem)) domain.UploadItem {
	if item.Status != domain.ItemStatusWaiting {
		return item
	}
	if report == nil {
		report = func(domain.UploadItem) {}
	}
	item.Target = target
	m := &machine{
		runner: r,
		item:   item.Clone(),
		report: report,
		logger: r.logger.With("item_id", item.ID.String(), "file_name", item.FileName),
	}
	m.run(ctx, file)
	return m.item.Clone()
}

type machine struct {
	runner *Runner
	item   domain.UploadItem
	report func(domain.UploadItem)
	logger *slog.Logger
}

func (m *machine) run(ctx context.Context, file domain.FileHandle) {
	transport := m.runner.transport

	uploadTarget, err := transport.RequestUploadTarget(ctx, m.item.FileName, m.item.ContentType)
	if err != nil {
		m.fail(ctx, err)
		return
	}

	if err := m.transition(domain.ItemStatusUploading, func(it *domain.UploadItem) {
		it.Progress = UploadProgress
	}); err != nil {
		m.fail(ctx, err)
		return
	}

	if err := transport.TransferBytes(ctx, uploadTarget.UploadURL, file); err != nil {
		m.fail(ctx, err)
		return
	}
	m.logger.Info("file uploaded", "storage_key", uploadTarget.StorageKey)

	jobID, err := transport.RegisterJob(ctx, uploadTarget.StorageKey, m.item.Target, m.jobSettings())
	if err != nil {
		m.fail(ctx, err)
		return
	}

	if err := m.transition(domain.ItemStatusProcessing, func(it *domain.UploadItem) {
		it.JobID = jobID
	}); err != nil {
		m.fail(ctx, err)
		return
	}
	m.logger.Info("job registered", "job_id", jobID)

	m.poll(ctx)
}

func (m *machine) poll(ctx context.Context) {
	failures := 0
	err := m.runner.opts.Schedule.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		status, err := m.runner.transport.FetchStatus(ctx, m.item.JobID)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			failures++
			if m.runner.opts.PollFailure(err, failures) == PollRetry {
				m.logger.Warn("status fetch failed, retrying", "attempt", attempt, "error", err)
				return false, nil
			}
			return false, err
		}
		failures = 0
		return m.observe(status)
	})
	if err != nil {
		m.fail(ctx, err)
	}
}

// observe applies one status report and reports whether a terminal state was reached.
func (m *machine) observe(status port.JobStatusReport) (bool, error) {
	switch classify(status.Status) {
	case remoteCompleted:
		if status.OutputKey == "" && status.DownloadURL == "" {
			return true, domain.ErrMissingOutput
		}
		return true, m.transition(domain.ItemStatusDone, func(it *domain.UploadItem) {
			it.Progress = 100
			it.OutputKey = status.OutputKey
			it.DownloadURL = status.DownloadURL
			if status.Message != "" {
				it.Message = status.Message
			}
		})
	case remoteFailed:
		return true, &remoteFailure{message: status.Message}
	default:
		return false, m.transition(domain.ItemStatusProcessing, func(it *domain.UploadItem) {
			if p := clampProgress(status.Progress); p > it.Progress {
				it.Progress = p
			}
			if status.Message != "" {
				it.Message = status.Message
			}
		})
	}
}

func (m *machine) transition(to domain.ItemStatus, mutate func(it *domain.UploadItem)) error {
	from := m.item.Status
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	m.item.Status = to
	if mutate != nil {
		mutate(&m.item)
	}
	m.item.UpdatedAt = m.runner.now()
	if from != to {
		m.logger.Info("item status changed", "from", from, "to", to, "progress", m.item.Progress)
	}
	m.report(m.item.Clone())
	return nil
}

// fail moves the item to error. Progress keeps its last value.
func (m *machine) fail(ctx context.Context, err error) {
	if m.item.Status.IsTerminal() {
		return
	}
	if ctx.Err() != nil && !errors.Is(err, domain.ErrPollLimitReached) {
		err = fmt.Errorf("%w: %w", domain.ErrAborted, err)
	}
	msg := m.errorMessage(err)

	m.logger.Error("item failed", "status", m.item.Status, "error", err)
	m.item.Status = domain.ItemStatusError
	m.item.Error = msg
	m.item.UpdatedAt = m.runner.now()
	m.report(m.item.Clone())
}

func (m *machine) errorMessage(err error) string {
	p := m.printer()
	var remote *remoteFailure
	var transportErr *domain.TransportError
	switch {
	case errors.Is(err, domain.ErrAborted):
		return p.Sprintf(locale.MsgAborted)
	case errors.As(err, &remote):
		if remote.message != "" {
			return remote.message
		}
		return p.Sprintf(locale.MsgConversionFail)
	case errors.As(err, &transportErr):
		return transportErr.UserMessage()
	case errors.Is(err, domain.ErrPollLimitReached):
		return p.Sprintf(locale.MsgTimedOut)
	case errors.Is(err, domain.ErrMissingOutput):
		return p.Sprintf(locale.MsgMissingOutput)
	case errors.Is(err, domain.ErrInvalidSettings):
		return err.Error()
	default:
		return p.Sprintf(locale.MsgConversionFail)
	}
}

func (m *machine) printer() *message.Printer {
	if m.runner.opts.Locale != nil {
		return m.runner.opts.Locale.Printer()
	}
	fallback, _ := locale.NewContext(language.English)
	return fallback.Printer()
}

func (m *machine) jobSettings() domain.JobSettings {
	if !m.item.IsVideo || m.item.Settings == nil {
		return nil
	}
	return domain.VideoSettings{EncodeSettings: *m.item.Settings}
}

// remoteFailure is a job the service reported as failed.
type remoteFailure struct {
	message string
}

func (e *remoteFailure) Error() string {
	if e.message == "" {
		return domain.ErrConversionFailed.Error()
	}
	return fmt.Sprintf("%s: %s", domain.ErrConversionFailed, e.message)
}

func (e *remoteFailure) Unwrap() error {
	return domain.ErrConversionFailed
}

type remoteState int

const (
	remoteRunning remoteState = iota
	remoteCompleted
	remoteFailed
)

func classify(status string) remoteState {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "complete", "done", "succeeded", "success":
		return remoteCompleted
	case "failed", "error", "canceled", "cancelled":
		return remoteFailed
	default:
		return remoteRunning
	}
}

func clampProgress(p float64) float64 {
	switch {
	case p < 0 || p != p:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
