// Package ingest routes inbound external events to saga starts. The router
// owns the event-type dispatch table and the idempotent-start contract; it
// never owns saga logic. Unknown event types and malformed payloads are
// logged and skipped — ingestion must keep draining regardless of what
// arrives on it.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/ahrav/go-notify/internal/domain"
	"github.com/ahrav/go-notify/internal/queues"
	"github.com/ahrav/go-notify/internal/workflow"
)

// WorkflowStarter is the slice of the Temporal client the router needs.
// client.Client satisfies it; tests substitute recorders.
type WorkflowStarter interface {
	ExecuteWorkflow(
		ctx context.Context,
		options client.StartWorkflowOptions,
		workflowFn any,
		args ...any,
	) (client.WorkflowRun, error)
}

// WorkflowID derives the deterministic saga identifier for an event. The
// event id is the idempotency boundary: the same event always maps to the
// same workflow id, so duplicate deliveries collapse onto one instance.
func WorkflowID(eventID string) string {
	return "notification-" + eventID
}

// Router inspects inbound events and starts one saga per recognized event.
type Router struct {
	starter   WorkflowStarter
	taskQueue string
	logger    *zap.Logger
}

// NewRouter builds a Router that starts sagas on the orchestration queue
// named by routes.
func NewRouter(starter WorkflowStarter, routes queues.Routes, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		starter:   starter,
		taskQueue: routes.Queue(queues.StepOrchestration),
		logger:    logger,
	}
}

// Route inspects the event type tag and starts the matching saga. It never
// returns an error and never blocks the ingestion stream: unrecognized types
// and malformed payloads are logged and skipped, and start failures are
// logged for operational follow-up.
//
// TODO: dead-letter failed starts instead of logging once a DLQ topic exists.
func (r *Router) Route(ctx context.Context, eventID, eventType string, rawPayload []byte) {
	switch eventType {
	case domain.EventTypeRxOrder:
		var payload domain.NotificationPayload
		if err := json.Unmarshal(rawPayload, &payload); err != nil {
			r.logger.Error("Malformed event payload, skipping",
				zap.String("event_id", eventID),
				zap.String("event_type", eventType),
				zap.Error(err))
			return
		}
		if err := r.StartSaga(ctx, eventID, eventType, payload); err != nil {
			r.logger.Error("Failed to start notification saga",
				zap.String("event_id", eventID),
				zap.Error(err))
		}
	default:
		r.logger.Warn("Unknown event type, skipping",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType))
	}
}

// StartSaga starts the notification workflow for one event, keyed by the
// deterministic workflow id. Starting an already-started saga is a no-op:
// the existing run is returned instead of an error, so at-least-once event
// delivery never produces duplicate orchestrations.
func (r *Router) StartSaga(
	ctx context.Context,
	eventID, eventType string,
	payload domain.NotificationPayload,
) error {
	req := domain.NotificationRequest{
		EventID:   eventID,
		EventType: eventType,
		Payload:   payload,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("start saga: %w", err)
	}

	options := client.StartWorkflowOptions{
		ID:                       WorkflowID(eventID),
		TaskQueue:                r.taskQueue,
		WorkflowExecutionTimeout: workflow.ExecutionTimeout,
		// Duplicate starts resolve to the existing run rather than erroring.
		WorkflowExecutionErrorWhenAlreadyStarted: false,
	}

	run, err := r.starter.ExecuteWorkflow(ctx, options, workflow.NotificationWorkflow, req)
	if err != nil {
		return fmt.Errorf("start saga %s: %w", options.ID, err)
	}

	r.logger.Info("Started notification saga",
		zap.String("workflow_id", options.ID),
		zap.String("run_id", run.GetRunID()),
		zap.String("event_id", eventID))
	return nil
}
