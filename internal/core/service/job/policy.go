package job

// PollDecision is what to do after a failed status fetch
type PollDecision int

const (
	// PollFail moves the item to error
	PollFail PollDecision = iota
	// PollRetry keeps polling on the normal interval
	PollRetry
)

// PollFailurePolicy decides how a status fetch failure is treated.
// consecutiveFailures counts failures since the last successful fetch, starting at 1.
type PollFailurePolicy func(err error, consecutiveFailures int) PollDecision

// FailOnFirstError treats any status fetch failure like a failed job
func FailOnFirstError(error, int) PollDecision {
	return PollFail
}

// RetryUpTo tolerates n consecutive fetch failures before failing the item
func RetryUpTo(n int) PollFailurePolicy {
	return func(_ error, consecutiveFailures int) PollDecision {
		if consecutiveFailures <= n {
			return PollRetry
		}
		return PollFail
	}
}

// PolicyForRetries returns FailOnFirstError for n <= 0, RetryUpTo(n) otherwise
func PolicyForRetries(n int) PollFailurePolicy {
	if n <= 0 {
		return FailOnFirstError
	}
	return RetryUpTo(n)
}
