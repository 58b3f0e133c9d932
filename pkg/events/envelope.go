// Package events provides the generic envelope and sink used to publish saga
// lifecycle events (saga started, contact resolved, message dispatched) to
// downstream projections. The envelope carries the metadata consumers need to
// deduplicate and correlate events without understanding their payloads.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Envelope wraps a domain event with routing and idempotency metadata.
// Activities retry under the execution substrate's policies, so the same
// logical event may be emitted more than once; consumers deduplicate on
// IdempotencyKey.
type Envelope struct {
	// ID uniquely identifies this emission. Generated per emission; two
	// emissions of the same logical event have different IDs but the same
	// IdempotencyKey.
	ID string `json:"id"`

	// Type identifies the event for routing, e.g. "contact.resolved".
	Type string `json:"type"`

	// Source names the emitting component, e.g. "contact-activity".
	Source string `json:"source"`

	// Version enables payload schema evolution. Starts at "1.0.0".
	Version string `json:"version"`

	// Timestamp records when the event was emitted (activity wall clock).
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey is deterministic over workflow identity and event
	// content so retried activities produce deduplicatable emissions.
	IdempotencyKey string `json:"idempotency_key"`

	// WorkflowID and RunID tie the event back to the saga instance that
	// produced it.
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`

	// Payload is the domain-specific event body; schema varies by Type
	// and Version.
	Payload json.RawMessage `json:"payload"`
}

// EventSink receives envelopes with best-effort delivery. Implementations
// range from an outbox table to a broker producer to a test recorder.
// Sink failures must never fail the emitting activity.
type EventSink interface {
	// Append queues one envelope. Implementations should treat duplicate
	// idempotency keys as no-ops and return promptly.
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards all events. Used in tests and in deployments that
// have not wired a projection consumer yet.
type NoOpEventSink struct{}

// Append implements EventSink; it always succeeds without side effects.
func (NoOpEventSink) Append(context.Context, Envelope) error { return nil }

// NewNoOpEventSink returns a sink that discards every envelope.
func NewNoOpEventSink() EventSink { return NoOpEventSink{} }
