package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EventTypeRxOrder is the only event type the saga currently recognizes.
// The ingest router uses it for dispatch; the workflow records it on every
// message it creates.
const EventTypeRxOrder = "RxOrderNotification"

// NotificationPayload is the typed payload of a recognized inbound event:
// the contacts to notify and the message template to use.
type NotificationPayload struct {
	Contacts   []ContactRef `json:"contacts"`
	TemplateID string       `json:"templateId"`
}

// NotificationRequest is the input to one saga instance. The EventID doubles
// as the idempotency boundary: the workflow id is derived from it, so starting
// a saga twice for the same event is a no-op.
type NotificationRequest struct {
	// EventID is the triggering event's identifier (a UUID string).
	EventID string `json:"eventId"`

	// EventType is the inbound event's type tag.
	EventType string `json:"eventType"`

	Payload NotificationPayload `json:"payload"`
}

// Validate checks the request is runnable: an event identity, a template to
// dispatch, and at least one well-formed contact reference.
func (r NotificationRequest) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return errors.New("notification request: event id is required")
	}
	if strings.TrimSpace(r.EventType) == "" {
		return errors.New("notification request: event type is required")
	}
	if strings.TrimSpace(r.Payload.TemplateID) == "" {
		return errors.New("notification request: template id is required")
	}
	if len(r.Payload.Contacts) == 0 {
		return errors.New("notification request: at least one contact is required")
	}
	for i, ref := range r.Payload.Contacts {
		if err := ref.Validate(); err != nil {
			return fmt.Errorf("notification request: contact %d: %w", i, err)
		}
	}
	return nil
}

// SagaOutcome is the terminal state of a saga instance. Failed and TimedOut
// sagas surface as workflow errors; SagaCompleted is the only outcome carried
// inside a SagaResult.
type SagaOutcome string

const (
	// SagaCompleted means every resolution succeeded and every dispatch was
	// attempted. Individual dispatch rejections are recorded on the result,
	// not promoted to a saga failure.
	SagaCompleted SagaOutcome = "COMPLETED"

	// SagaFailed means a resolution branch failed terminally. No messages
	// are dispatched for a failed saga.
	SagaFailed SagaOutcome = "FAILED"

	// SagaTimedOut means the instance exceeded its execution ceiling.
	// Reported by the execution substrate, not constructed by the workflow.
	SagaTimedOut SagaOutcome = "TIMED_OUT"
)

// DispatchFailure records one rejected message dispatch: which contact the
// bundling unit was dispatched for and why the message service rejected it.
type DispatchFailure struct {
	ContactID string `json:"contactId"`
	Reason    string `json:"reason"`
}

// SagaResult is the workflow's return value for sagas that reach a terminal
// state through their own control flow.
type SagaResult struct {
	Outcome SagaOutcome `json:"outcome"`

	// ContactsResolved is the number of resolution branches that completed.
	ContactsResolved int `json:"contactsResolved"`

	// MessagesCreated is the number of dispatches the message service accepted.
	MessagesCreated int `json:"messagesCreated"`

	// DispatchFailures lists dispatches the message service rejected.
	// Rejections are isolated: they never roll back sibling dispatches.
	DispatchFailures []DispatchFailure `json:"dispatchFailures,omitempty"`
}
