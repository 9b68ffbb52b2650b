package job

import (
	"context"
	"time"

	"convertflow/internal/core/domain"
)

// DefaultPollInterval is the fixed delay between two status fetches
const DefaultPollInterval = 2 * time.Second

// Schedule repeats a task on a constant interval, without backoff.
// Zero limits mean no limit.
type Schedule struct {
	Interval    time.Duration
	MaxAttempts int
	MaxDuration time.Duration
}

// DefaultSchedule polls every two seconds forever
func DefaultSchedule() Schedule {
	return Schedule{Interval: DefaultPollInterval}
}

// Run calls tick once per interval until it reports done or fails.
// The first call happens one interval after Run starts.
// It returns domain.ErrPollLimitReached when a limit is hit and ctx.Err() when ctx ends.
func (s Schedule) Run(ctx context.Context, tick func(ctx context.Context, attempt int) (bool, error)) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var deadline <-chan time.Time
	if s.MaxDuration > 0 {
		timer := time.NewTimer(s.MaxDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		if s.MaxAttempts > 0 && attempt > s.MaxAttempts {
			return domain.ErrPollLimitReached
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return domain.ErrPollLimitReached
		case <-ticker.C:
		}
		// select picks randomly when ctx ended and the ticker fired together
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := tick(ctx, attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
