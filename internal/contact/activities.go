package contact

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-notify/internal/domain"
	"github.com/ahrav/go-notify/pkg/activity"
)

// Registered activity names, used by workflow code to schedule executions
// without importing activity instances.
const (
	ActivityLookupContact = "LookupContact"
	ActivityCreateContact = "CreateContact"
	ActivityPollContact   = "PollContact"
)

// LookupInput identifies the contact to look up or poll for.
type LookupInput struct {
	ExternalIDType  string `json:"externalIdType"`
	ExternalIDValue string `json:"externalIdValue"`
}

// Validate checks the identifier pair is present.
func (in LookupInput) Validate() error {
	return domain.ContactRef{
		ExternalIDType:  in.ExternalIDType,
		ExternalIDValue: in.ExternalIDValue,
	}.Validate()
}

// LookupOutput carries the lookup result. A nil Contact means the service
// answered "not found" — a normal outcome the workflow branches on, never an
// activity failure.
type LookupOutput struct {
	Contact *domain.ResolvedContact `json:"contact,omitempty"`
}

// Activities implements the contact-resolution Temporal activities. All I/O
// goes through the Service; classification of its failures into retryable and
// terminal errors happens here, at the activity boundary.
type Activities struct {
	activity.BaseActivities
	service Service
	events  *EventEmitter
}

// NewActivities wires contact activities with their collaborator client and
// shared activity infrastructure.
func NewActivities(base activity.BaseActivities, service Service) *Activities {
	return &Activities{
		BaseActivities: base,
		service:        service,
		events:         NewEventEmitter(base),
	}
}

// LookupContact queries the contact service once. Not-found comes back as a
// successful LookupOutput with a nil contact; only transport problems and
// undecodable responses are errors.
func (a *Activities) LookupContact(ctx context.Context, in LookupInput) (*LookupOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid lookup input", TypeValidation, err)
	}

	activity.SafeLog(ctx, "Looking up contact",
		"external_id_type", in.ExternalIDType,
		"external_id_value", in.ExternalIDValue)

	contact, err := a.service.Lookup(ctx, in.ExternalIDType, in.ExternalIDValue)
	if err != nil {
		return nil, classifyLookupErr(err)
	}
	if contact == nil {
		activity.SafeLog(ctx, "Contact not found",
			"external_id_type", in.ExternalIDType,
			"external_id_value", in.ExternalIDValue)
		return &LookupOutput{}, nil
	}

	activity.SafeLog(ctx, "Found contact",
		"external_id_type", in.ExternalIDType,
		"external_id_value", in.ExternalIDValue,
		"contact_id", contact.ID)
	return &LookupOutput{Contact: contact}, nil
}

// CreateContact submits a contact for asynchronous creation. The service
// materializes the record eventually; the caller polls for it afterwards.
func (a *Activities) CreateContact(ctx context.Context, ref domain.ContactRef) error {
	if err := ref.Validate(); err != nil {
		return temporal.NewNonRetryableApplicationError("invalid contact ref", TypeValidation, err)
	}

	activity.SafeLog(ctx, "Creating contact",
		"external_id_type", ref.ExternalIDType,
		"external_id_value", ref.ExternalIDValue)

	if err := a.service.Create(ctx, ref); err != nil {
		return fmt.Errorf("create contact %s=%s: %w", ref.ExternalIDType, ref.ExternalIDValue, err)
	}

	wfCtx := a.GetWorkflowContext(ctx)
	a.events.EmitContactCreateRequested(ctx, ref, wfCtx)

	activity.SafeLog(ctx, "Contact create request accepted",
		"external_id_type", ref.ExternalIDType,
		"external_id_value", ref.ExternalIDValue)
	return nil
}

// PollContact queries the contact service expecting the record to appear.
// Not-found is returned as a retryable ContactNotFound application error:
// under the polling retry policy the substrate re-runs this activity on an
// exponential backoff schedule until the record materializes or the attempt
// budget is exhausted.
func (a *Activities) PollContact(ctx context.Context, in LookupInput) (*domain.ResolvedContact, error) {
	if err := in.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid poll input", TypeValidation, err)
	}

	activity.SafeLog(ctx, "Polling for contact",
		"external_id_type", in.ExternalIDType,
		"external_id_value", in.ExternalIDValue)

	contact, err := a.service.Lookup(ctx, in.ExternalIDType, in.ExternalIDValue)
	if err != nil {
		return nil, classifyLookupErr(err)
	}
	if contact == nil {
		return nil, temporal.NewApplicationError(
			fmt.Sprintf("contact not yet consistent: %s=%s", in.ExternalIDType, in.ExternalIDValue),
			TypeContactNotFound,
		)
	}

	wfCtx := a.GetWorkflowContext(ctx)
	a.events.EmitContactResolved(ctx, *contact, wfCtx)

	activity.SafeLog(ctx, "Contact materialized",
		"external_id_type", in.ExternalIDType,
		"external_id_value", in.ExternalIDValue,
		"contact_id", contact.ID)
	return contact, nil
}

// classifyLookupErr separates terminal data errors from transport errors.
// Malformed bodies are non-retryable; everything else stays a plain error for
// the substrate's transient-retry policy.
func classifyLookupErr(err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return temporal.NewNonRetryableApplicationError("contact service response not parseable", TypeMalformedResponse, err)
	}
	return err
}
