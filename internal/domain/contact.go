// Package domain defines the value types that flow through the notification
// saga: contact references arriving on inbound events, resolved contacts
// returned by the contact service, and the request/result shapes of the
// orchestration itself. All types are immutable values; nothing in this
// package performs I/O.
package domain

import (
	"errors"
	"strings"
)

// ContactStatus is the lifecycle status reported by the contact service.
type ContactStatus string

const (
	// ContactActive is the status of a fully materialized contact.
	ContactActive ContactStatus = "ACTIVE"

	// ContactInactive marks contacts that exist but should not receive
	// new messages. The orchestrator still resolves them; channel-level
	// suppression belongs to the message service.
	ContactInactive ContactStatus = "INACTIVE"
)

// ContactRef identifies one external contact on an inbound event: a typed
// external-identifier pair plus the contact endpoints known to the event
// producer. A ContactRef is constructed once per saga fan-out branch and is
// owned exclusively by that branch's resolution.
type ContactRef struct {
	// ExternalIDType names the identifier scheme, e.g. "patient-id".
	ExternalIDType string `json:"externalIdType"`

	// ExternalIDValue is the identifier within that scheme.
	ExternalIDValue string `json:"externalIdValue"`

	// Email is the contact's email endpoint, if the producer knows one.
	Email string `json:"email,omitempty"`

	// Phone is the contact's phone endpoint, if the producer knows one.
	Phone string `json:"phone,omitempty"`
}

// Validate reports whether the reference carries the identifier pair required
// to resolve it. Endpoints are optional; the identifier pair is not.
func (r ContactRef) Validate() error {
	if strings.TrimSpace(r.ExternalIDType) == "" {
		return errors.New("contact ref: external id type is required")
	}
	if strings.TrimSpace(r.ExternalIDValue) == "" {
		return errors.New("contact ref: external id value is required")
	}
	return nil
}

// ResolvedContact is the outcome of resolving one ContactRef against the
// contact service: the internal contact identity plus the endpoints the
// service holds. Treated as a value; never mutated after the resolution
// branch returns it.
type ResolvedContact struct {
	// ID is the contact service's internal identifier (a UUID string).
	ID string `json:"id"`

	ExternalIDType  string `json:"externalIdType"`
	ExternalIDValue string `json:"externalIdValue"`

	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	Status ContactStatus `json:"status"`
}

// HasEmail reports whether the contact carries a usable email endpoint.
// Blank and whitespace-only values count as absent.
func (c ResolvedContact) HasEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}
