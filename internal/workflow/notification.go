package workflow

import (
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-notify/internal/bundling"
	"github.com/ahrav/go-notify/internal/contact"
	"github.com/ahrav/go-notify/internal/domain"
	"github.com/ahrav/go-notify/internal/message"
)

// Application error types surfaced by the workflow itself.
const (
	// TypeResolutionFailed marks a saga that failed because a contact
	// could not be resolved within its retry budget. No messages are
	// dispatched past this point.
	TypeResolutionFailed = "ResolutionFailed"

	// TypeValidation marks a request rejected before any step ran.
	TypeValidation = "Validation"
)

// NotificationWorkflow orchestrates one notification saga: resolve every
// contact on the event in parallel, barrier, bundle by shared endpoint, then
// dispatch one message per bundle in parallel. Resolution failures fail the
// whole saga — bundling needs the complete resolved set to group correctly,
// so there are no partial-success semantics for resolution. Dispatch
// rejections are isolated per unit and reported on the result.
func NotificationWorkflow(
	ctx workflow.Context,
	req domain.NotificationRequest,
) (*domain.SagaResult, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "notification.v", workflow.DefaultVersion, currentVersion)

	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid notification request",
			TypeValidation,
			err,
		)
	}

	logger := workflow.GetLogger(ctx)
	logger.Info("Processing notification event",
		"event_id", req.EventID,
		"event_type", req.EventType,
		"contacts", len(req.Payload.Contacts))

	resolved, err := resolveAll(ctx, req.Payload.Contacts)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"contact resolution failed",
			TypeResolutionFailed,
			err,
		)
	}

	logger.Info("All contacts resolved", "event_id", req.EventID, "count", len(resolved))

	// Pure and in-process: grouping must see the full resolved set, and its
	// output order must be replay-stable (first-appearance order).
	units := bundling.Bundle(resolved, bundling.ByEmail)

	result := dispatchAll(ctx, units, req)
	result.ContactsResolved = len(resolved)

	logger.Info("Notification workflow completed",
		"event_id", req.EventID,
		"contacts", result.ContactsResolved,
		"messages", result.MessagesCreated,
		"dispatch_failures", len(result.DispatchFailures))
	return result, nil
}

// resolveAll fans out one resolution branch per reference and blocks until
// every branch finishes. Branches run as workflow coroutines with no ordering
// dependency between them; the wait group is the barrier. When branches fail,
// the first failure by input order is returned so the error is deterministic
// across replays regardless of completion order.
func resolveAll(ctx workflow.Context, refs []domain.ContactRef) ([]domain.ResolvedContact, error) {
	results := make([]domain.ResolvedContact, len(refs))
	errs := make([]error, len(refs))

	wg := workflow.NewWaitGroup(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		wg.Add(1)
		workflow.Go(ctx, func(gctx workflow.Context) {
			defer wg.Done()
			results[i], errs[i] = resolveContact(gctx, ref)
		})
	}
	wg.Wait(ctx)

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("contact %d (%s=%s): %w",
				i, refs[i].ExternalIDType, refs[i].ExternalIDValue, err)
		}
	}
	return results, nil
}

// resolveContact runs one branch: look up, create if absent, then poll until
// the record materializes. The create call happens at most once per branch;
// transient create failures are retried by the activity policy, never by
// re-entering this function.
func resolveContact(ctx workflow.Context, ref domain.ContactRef) (domain.ResolvedContact, error) {
	logger := workflow.GetLogger(ctx)
	in := contact.LookupInput{
		ExternalIDType:  ref.ExternalIDType,
		ExternalIDValue: ref.ExternalIDValue,
	}

	stdCtx := workflow.WithActivityOptions(ctx, contactActivityOptions())

	var lookup contact.LookupOutput
	if err := workflow.ExecuteActivity(stdCtx, contact.ActivityLookupContact, in).Get(ctx, &lookup); err != nil {
		return domain.ResolvedContact{}, fmt.Errorf("lookup: %w", err)
	}
	if lookup.Contact != nil {
		logger.Info("Contact already exists",
			"external_id_type", ref.ExternalIDType,
			"external_id_value", ref.ExternalIDValue,
			"contact_id", lookup.Contact.ID)
		return *lookup.Contact, nil
	}

	logger.Info("Contact not found, creating",
		"external_id_type", ref.ExternalIDType,
		"external_id_value", ref.ExternalIDValue)
	if err := workflow.ExecuteActivity(stdCtx, contact.ActivityCreateContact, ref).Get(ctx, nil); err != nil {
		return domain.ResolvedContact{}, fmt.Errorf("create: %w", err)
	}

	// The polling retry policy turns ContactNotFound into the retry signal:
	// the server re-runs the poll on the backoff schedule until the contact
	// appears or the ten-attempt budget is exhausted.
	pollCtx := workflow.WithActivityOptions(ctx, pollingActivityOptions())
	var resolved domain.ResolvedContact
	if err := workflow.ExecuteActivity(pollCtx, contact.ActivityPollContact, in).Get(ctx, &resolved); err != nil {
		return domain.ResolvedContact{}, fmt.Errorf("poll: %w", err)
	}
	return resolved, nil
}

// dispatchAll fans out one CreateMessage activity per bundling unit and waits
// for all of them. Dispatches are idempotent and order-independent, so the
// futures are launched together; the join exists so failures surface and the
// saga-level timeout applies uniformly, not because units depend on each
// other. A rejected dispatch is recorded and never rolls back its siblings.
func dispatchAll(ctx workflow.Context, units []bundling.Unit, req domain.NotificationRequest) *domain.SagaResult {
	logger := workflow.GetLogger(ctx)
	msgCtx := workflow.WithActivityOptions(ctx, messageActivityOptions())

	futures := make([]workflow.Future, len(units))
	for i, unit := range units {
		futures[i] = workflow.ExecuteActivity(msgCtx, message.ActivityCreateMessage, message.DispatchInput{
			ContactID:  unit.Representative.ID,
			TemplateID: req.Payload.TemplateID,
			EventType:  req.EventType,
		})
	}

	result := &domain.SagaResult{Outcome: domain.SagaCompleted}
	for i, future := range futures {
		if err := future.Get(ctx, nil); err != nil {
			logger.Warn("Message dispatch failed",
				"contact_id", units[i].Representative.ID,
				"error", err)
			result.DispatchFailures = append(result.DispatchFailures, domain.DispatchFailure{
				ContactID: units[i].Representative.ID,
				Reason:    err.Error(),
			})
			continue
		}
		result.MessagesCreated++
	}
	return result
}
