package backend

import (
	"context"
	"time"
)

// ExpireJobs drops every job registered before the given time, whatever its state.
// Clients still polling a dropped job get ErrJobNotFound.
func (b *backendService) ExpireJobs(ctx context.Context, before time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	expired := 0
	for id, job := range b.jobs {
		if job.createdAt.Before(before) {
			delete(b.jobs, id)
			expired++
		}
	}

	if expired > 0 {
		b.logger.Info("expired conversion jobs", "count", expired, "remaining", len(b.jobs))
	}
	return expired
}
