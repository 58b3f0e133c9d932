package contact

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-notify/internal/domain"
	"github.com/ahrav/go-notify/pkg/activity"
	"github.com/ahrav/go-notify/pkg/events"
)

// contactCreateRequestedEvent records that a create request was accepted by
// the contact service for a reference that had no existing record.
type contactCreateRequestedEvent struct {
	ExternalIDType  string    `json:"external_id_type"`
	ExternalIDValue string    `json:"external_id_value"`
	RequestedAt     time.Time `json:"requested_at"`
}

// contactResolvedEvent records that polling observed the materialized contact.
type contactResolvedEvent struct {
	ContactID       string    `json:"contact_id"`
	ExternalIDType  string    `json:"external_id_type"`
	ExternalIDValue string    `json:"external_id_value"`
	ResolvedAt      time.Time `json:"resolved_at"`
}

// EventEmitter publishes contact-domain lifecycle events through the shared
// activity infrastructure.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter returns an emitter bound to the shared base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitContactCreateRequested emits a contact.create_requested event.
// The idempotency key is stable across activity retries of the same branch.
func (e *EventEmitter) EmitContactCreateRequested(
	ctx context.Context,
	ref domain.ContactRef,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(contactCreateRequestedEvent{
		ExternalIDType:  ref.ExternalIDType,
		ExternalIDValue: ref.ExternalIDValue,
		RequestedAt:     time.Now(),
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal contact create event", "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           "contact.create_requested",
		Source:         "contact-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: wfCtx.WorkflowID + ":create:" + ref.ExternalIDType + ":" + ref.ExternalIDValue,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        payload,
	}, "ContactCreateRequested")
}

// EmitContactResolved emits a contact.resolved event once polling finds the
// materialized record.
func (e *EventEmitter) EmitContactResolved(
	ctx context.Context,
	contact domain.ResolvedContact,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(contactResolvedEvent{
		ContactID:       contact.ID,
		ExternalIDType:  contact.ExternalIDType,
		ExternalIDValue: contact.ExternalIDValue,
		ResolvedAt:      time.Now(),
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal contact resolved event", "error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           "contact.resolved",
		Source:         "contact-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: wfCtx.WorkflowID + ":resolved:" + contact.ExternalIDType + ":" + contact.ExternalIDValue,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        payload,
	}, "ContactResolved")
}
