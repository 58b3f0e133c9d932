package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-notify/internal/queues"
)

const (
	// activityStartToClose bounds each individual activity attempt,
	// independent of the saga-level execution timeout.
	activityStartToClose = 30 * time.Second

	// ExecutionTimeout is the saga-level ceiling. Exceeding it terminates
	// the instance as timed out and cancels pending activities best-effort.
	// Set on the start options by whoever starts the workflow.
	ExecutionTimeout = 10 * time.Minute

	// pollInitialInterval, pollBackoffCoefficient and pollMaxAttempts are
	// the eventual-consistency polling schedule: 1s, 2s, 4s, ... for up to
	// ten attempts. ContactNotFound is the retryable condition here — it
	// is the polling signal, not an error path.
	pollInitialInterval    = time.Second
	pollBackoffCoefficient = 2.0
	pollMaxAttempts        = 10
)

// defaultRetryPolicy covers transient transport failures on ordinary
// activities: lookup, create, dispatch. Application errors marked
// non-retryable by the activities (validation, malformed responses, explicit
// rejections) short-circuit it.
func defaultRetryPolicy() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    time.Minute,
		MaximumAttempts:    3,
	}
}

// pollingRetryPolicy drives the create-then-poll phase. The ContactNotFound
// application error is retryable under it, so each "not yet consistent"
// response schedules the next poll on the backoff curve until the record
// appears or the attempt budget runs out.
func pollingRetryPolicy() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:    pollInitialInterval,
		BackoffCoefficient: pollBackoffCoefficient,
		MaximumAttempts:    pollMaxAttempts,
	}
}

// contactActivityOptions routes an activity to the contact queue with the
// default transient-retry policy.
func contactActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		TaskQueue:           queues.ContactActivity,
		StartToCloseTimeout: activityStartToClose,
		RetryPolicy:         defaultRetryPolicy(),
	}
}

// pollingActivityOptions routes the poll activity to the contact queue with
// the aggressive polling retry policy.
func pollingActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		TaskQueue:           queues.ContactActivity,
		StartToCloseTimeout: activityStartToClose,
		RetryPolicy:         pollingRetryPolicy(),
	}
}

// messageActivityOptions routes the dispatch activity to the message queue.
func messageActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		TaskQueue:           queues.MessageActivity,
		StartToCloseTimeout: activityStartToClose,
		RetryPolicy:         defaultRetryPolicy(),
	}
}
