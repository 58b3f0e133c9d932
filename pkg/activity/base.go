// Package activity provides shared infrastructure for Temporal activity
// implementations: workflow context extraction, context-safe logging,
// heartbeats, and best-effort event emission. Domain activity packages embed
// BaseActivities instead of re-implementing these concerns.
package activity

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/ahrav/go-notify/pkg/events"
)

// WorkflowContext carries the workflow execution metadata an activity needs
// for event correlation and logging, with fallbacks for plain-context test
// invocations.
type WorkflowContext struct {
	WorkflowID string
	RunID      string
	ActivityID string
}

// BaseActivities bundles the cross-cutting dependencies every activity type
// shares. It works both inside a Temporal activity context and in tests that
// call activity methods with a plain context.Context.
type BaseActivities struct {
	eventSink events.EventSink
}

// NewBaseActivities returns a BaseActivities emitting to sink. A nil sink
// disables emission, which is the normal testing configuration.
func NewBaseActivities(sink events.EventSink) BaseActivities {
	return BaseActivities{eventSink: sink}
}

// GetWorkflowContext extracts execution metadata from the activity context.
// Outside a Temporal activity (where activity.GetInfo panics) it substitutes
// stable test identifiers so idempotency keys remain deterministic in tests.
func (b BaseActivities) GetWorkflowContext(ctx context.Context) WorkflowContext {
	var wfCtx WorkflowContext

	func() {
		defer func() {
			if recover() != nil {
				wfCtx.WorkflowID = "test-workflow"
				wfCtx.RunID = "test-run-" + uuid.New().String()[:8]
				wfCtx.ActivityID = "test-activity"
			}
		}()

		info := activity.GetInfo(ctx)
		wfCtx.WorkflowID = info.WorkflowExecution.ID
		wfCtx.RunID = info.WorkflowExecution.RunID
		wfCtx.ActivityID = info.ActivityID
	}()

	return wfCtx
}

// EmitEventSafe appends an envelope to the sink with a short bounded retry.
// Emission failures are logged and swallowed: events feed observability and
// projections, and must never fail the activity that produced them.
func (b BaseActivities) EmitEventSafe(ctx context.Context, envelope events.Envelope, description string) {
	if b.eventSink == nil {
		return
	}

	err := retry.Do(
		func() error { return b.eventSink.Append(ctx, envelope) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		SafeLogError(ctx, "Failed to emit "+description,
			"event_type", envelope.Type,
			"error", err)
		return
	}

	SafeLog(ctx, "Event emitted: "+description,
		"event_type", envelope.Type,
		"idempotency_key", envelope.IdempotencyKey)
}

// RecordHeartbeat records an activity heartbeat, ignoring non-activity contexts.
func (b BaseActivities) RecordHeartbeat(ctx context.Context, details ...any) {
	RecordHeartbeat(ctx, details...)
}

// SafeLog logs at INFO through the activity logger, silently ignoring calls
// made outside an activity context so tests can exercise activities directly.
func SafeLog(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		_ = recover() // not an activity context
	}()
	activity.GetLogger(ctx).Info(msg, keyvals...)
}

// SafeLogError logs at ERROR through the activity logger with the same
// non-activity-context tolerance as SafeLog.
func SafeLogError(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		_ = recover() // not an activity context
	}()
	activity.GetLogger(ctx).Error(msg, keyvals...)
}

// RecordHeartbeat records a heartbeat with details, ignoring non-activity contexts.
func RecordHeartbeat(ctx context.Context, details ...any) {
	defer func() {
		_ = recover() // not an activity context
	}()
	activity.RecordHeartbeat(ctx, details...)
}
