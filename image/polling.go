package image

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// JobStatus is the lifecycle state of an asynchronous provider job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether no further polling is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobSucceeded || s == JobFailed
}

// JobHandle is the in-flight reference to an asynchronous job. It is created by
// the submit call and replaced only by poll results.
type JobHandle struct {
	ExternalID      string
	PollingEndpoint string
	Status          JobStatus

	// Output is the single result reference once Succeeded.
	Output string
	// Detail is the provider's failure detail once Failed.
	Detail string
}

// PollFunc performs one status refresh of h.
type PollFunc func(ctx context.Context, h JobHandle) (JobHandle, error)

// PollingExecutor runs a bounded sleep-then-poll loop. It is stateless and safe
// for concurrent use.
type PollingExecutor struct {
	sleep  func(time.Duration)
	logger *zap.Logger
}

// NewPollingExecutor creates an executor that sleeps with time.Sleep.
func NewPollingExecutor(logger *zap.Logger) *PollingExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PollingExecutor{
		sleep:  time.Sleep,
		logger: logger.With(zap.String("component", "polling_executor")),
	}
}

// AwaitCompletion polls until h reaches a terminal status or maxAttempts polls
// have been made, and returns the last handle with the number of polls made.
// A poll that returns an error leaves the handle unchanged for that attempt.
// A non-terminal handle on return means the budget was exhausted.
//
// The loop does not observe ctx; ctx is only passed through to poll. The attempt
// budget is the sole bound.
func (e *PollingExecutor) AwaitCompletion(ctx context.Context, h JobHandle, poll PollFunc, maxAttempts int, interval time.Duration) (JobHandle, int) {
	attempts := 0
	for !h.Status.Terminal() && attempts < maxAttempts {
		e.sleep(interval)
		attempts++

		next, err := poll(ctx, h)
		if err != nil {
			e.logger.Debug("poll attempt failed, keeping previous handle",
				zap.String("job_id", h.ExternalID),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			continue
		}
		h = next
	}

	if !h.Status.Terminal() {
		e.logger.Warn("polling budget exhausted",
			zap.String("job_id", h.ExternalID),
			zap.Int("attempts", attempts),
			zap.String("status", string(h.Status)),
		)
	}
	return h, attempts
}
