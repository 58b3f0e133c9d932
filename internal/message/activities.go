package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-notify/pkg/activity"
	"github.com/ahrav/go-notify/pkg/events"
)

// Temporal application error types returned by message activities.
const (
	// TypeMessageRejected marks an explicit refusal from the message
	// service. Terminal for the one dispatch that triggered it.
	TypeMessageRejected = "MessageRejected"

	// TypeValidation marks activity input that failed validation.
	TypeValidation = "Validation"
)

// ActivityCreateMessage is the registered name of the dispatch activity.
const ActivityCreateMessage = "CreateMessage"

// DefaultChannel is the only delivery channel the saga currently requests.
// Channel selection by contact preference is future work alongside phone
// bundling.
const DefaultChannel = "EMAIL"

// DispatchInput identifies one message to create: the representative contact
// of a bundling unit, the template, and the event type for message content.
type DispatchInput struct {
	ContactID  string `json:"contactId"`
	TemplateID string `json:"templateId"`
	EventType  string `json:"eventType"`
}

// Validate checks all identifiers are present.
func (in DispatchInput) Validate() error {
	if strings.TrimSpace(in.ContactID) == "" {
		return errors.New("dispatch input: contact id is required")
	}
	if strings.TrimSpace(in.TemplateID) == "" {
		return errors.New("dispatch input: template id is required")
	}
	if strings.TrimSpace(in.EventType) == "" {
		return errors.New("dispatch input: event type is required")
	}
	return nil
}

// DispatchOutput reports the accepted dispatch.
type DispatchOutput struct {
	ContactID string `json:"contactId"`
	Status    string `json:"status"`
}

// Activities implements the message-dispatch Temporal activity.
type Activities struct {
	activity.BaseActivities
	service Service
}

// NewActivities wires the dispatch activity with its collaborator client.
func NewActivities(base activity.BaseActivities, service Service) *Activities {
	return &Activities{BaseActivities: base, service: service}
}

// CreateMessage submits one message to the message service. Acceptance is the
// success condition; explicit rejections come back as non-retryable
// MessageRejected errors so the orchestrator records them without retrying or
// cascading to sibling dispatches. Transport failures stay plain errors for
// the substrate's transient-retry policy.
func (a *Activities) CreateMessage(ctx context.Context, in DispatchInput) (*DispatchOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid dispatch input", TypeValidation, err)
	}

	activity.SafeLog(ctx, "Creating message",
		"contact_id", in.ContactID,
		"template_id", in.TemplateID,
		"event_type", in.EventType)

	content := "Notification for event type: " + in.EventType
	err := a.service.CreateMessage(ctx, in.ContactID, in.TemplateID, DefaultChannel, content)
	if err != nil {
		var rejection *RejectionError
		if errors.As(err, &rejection) {
			return nil, temporal.NewNonRetryableApplicationError(rejection.Error(), TypeMessageRejected, err)
		}
		return nil, fmt.Errorf("create message for contact %s: %w", in.ContactID, err)
	}

	wfCtx := a.GetWorkflowContext(ctx)
	a.emitMessageDispatched(ctx, in, wfCtx)

	activity.SafeLog(ctx, "Message create request accepted", "contact_id", in.ContactID)
	return &DispatchOutput{ContactID: in.ContactID, Status: "ACCEPTED"}, nil
}

// messageDispatchedEvent records one accepted message dispatch.
type messageDispatchedEvent struct {
	ContactID    string    `json:"contact_id"`
	TemplateID   string    `json:"template_id"`
	EventType    string    `json:"event_type"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

func (a *Activities) emitMessageDispatched(ctx context.Context, in DispatchInput, wfCtx activity.WorkflowContext) {
	payload, err := json.Marshal(messageDispatchedEvent{
		ContactID:    in.ContactID,
		TemplateID:   in.TemplateID,
		EventType:    in.EventType,
		DispatchedAt: time.Now(),
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal message dispatched event", "error", err)
		return
	}

	a.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           "message.dispatched",
		Source:         "message-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: wfCtx.WorkflowID + ":dispatch:" + in.ContactID + ":" + in.TemplateID,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        payload,
	}, "MessageDispatched")
}
