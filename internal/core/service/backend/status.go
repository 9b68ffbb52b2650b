package backend

import (
	"context"
	"fmt"
	"path"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"
)

// Status reports a job and advances it by one step.
// A job goes queued -> processing -> completed (or failed) over successive calls.
func (b *backendService) Status(ctx context.Context, jobID string) (port.JobStatusReport, error) {
	b.mu.Lock()
	job, ok := b.jobs[jobID]
	b.mu.Unlock()
	if !ok {
		return port.JobStatusReport{}, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}

	b.advance(ctx, job)

	b.mu.Lock()
	report := port.JobStatusReport{
		JobID:     job.id,
		Status:    string(job.state),
		Progress:  job.progress,
		Message:   job.message,
		OutputKey: job.outputKey,
	}
	b.mu.Unlock()

	if report.Status == string(jobCompleted) {
		url, _, err := b.storage.PresignDownload(ctx, report.OutputKey)
		if err != nil {
			b.logger.Warn("failed to presign download", "job_id", jobID, "error", err)
		} else {
			report.DownloadURL = url
		}
	}
	return report, nil
}

func (b *backendService) advance(ctx context.Context, job *conversionJob) {
	b.mu.Lock()
	state := job.state
	if state == jobQueued {
		job.state = jobProcessing
		job.progress = 50
		job.message = "converting"
	}
	b.mu.Unlock()

	if state != jobProcessing {
		return
	}

	outputKey := path.Join(OutputPrefix, job.id+"."+job.format)
	err := b.storage.CopyObject(ctx, job.sourceKey, outputKey)

	b.mu.Lock()
	defer b.mu.Unlock()
	if job.state != jobProcessing {
		return
	}
	if err != nil {
		b.logger.Error("conversion failed", "job_id", job.id, "error", err)
		job.state = jobFailed
		job.message = "conversion failed"
		return
	}
	job.state = jobCompleted
	job.progress = 100
	job.message = ""
	job.outputKey = outputKey
	b.logger.Info("conversion completed", "job_id", job.id, "output_key", outputKey)
}
