// Package contact implements the entity-resolution side of the notification
// saga: an HTTP client for the contact service and the Temporal activities
// that look up, create, and poll for contacts. Error classification here
// drives the substrate's retry behavior, so the distinctions matter:
// "not found" is a normal outcome for lookups, the retryable polling signal
// for polls, and never a transport error.
package contact

import (
	"errors"
	"fmt"
)

// Temporal application error types returned by contact activities. Retry
// policies key on these names.
const (
	// TypeContactNotFound marks the retryable "not yet consistent" signal
	// from PollContact. The polling retry policy treats it as the cue to
	// try again; every other policy leaves it alone.
	TypeContactNotFound = "ContactNotFound"

	// TypeMalformedResponse marks a well-formed HTTP exchange whose body
	// could not be decoded. Retrying cannot help; the error is terminal.
	TypeMalformedResponse = "MalformedResponse"

	// TypeValidation marks activity input that failed validation.
	TypeValidation = "Validation"
)

// ErrMalformedResponse is returned by the client when the contact service
// answers 2xx with a body that does not decode. Distinct from transport
// errors so activities can mark it non-retryable.
var ErrMalformedResponse = errors.New("malformed contact service response")

// StatusError is a non-2xx, non-404 response from the contact service.
// It carries the status code but is otherwise a plain error: the execution
// substrate's default policy owns retrying it.
type StatusError struct {
	Operation  string
	StatusCode int
}

// Error formats as "<operation>: contact service returned status <code>".
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: contact service returned status %d", e.Operation, e.StatusCode)
}
