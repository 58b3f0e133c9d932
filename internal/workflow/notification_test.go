package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-notify/internal/domain"
)

func TestNotificationWorkflow(t *testing.T) {
	ref1 := domain.ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-1", Email: "one@example.com"}
	ref2 := domain.ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-2", Email: "two@example.com"}

	t.Run("happy path: existing contact, one message, no create", func(t *testing.T) {
		contacts := newFakeContactService()
		messages := newFakeMessageService()
		seedContact(contacts, ref1, "c-1", 0)

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(ref1))

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result domain.SagaResult
		require.NoError(t, env.GetWorkflowResult(&result))
		assert.Equal(t, domain.SagaCompleted, result.Outcome)
		assert.Equal(t, 1, result.ContactsResolved)
		assert.Equal(t, 1, result.MessagesCreated)
		assert.Empty(t, result.DispatchFailures)

		assert.Equal(t, 0, contacts.totalCreates(), "existing contact must not be re-created")
		assert.Equal(t, 1, contacts.totalLookups())
		assert.Equal(t, []string{"c-1"}, messages.acceptedContacts())
	})

	t.Run("create then poll: one create, three lookups, one message", func(t *testing.T) {
		contacts := newFakeContactService()
		messages := newFakeMessageService()
		// Not found on the initial lookup and the first poll; found on the
		// second poll. Three lookups total.
		seedContact(contacts, ref1, "c-1", 2)

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(ref1))

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		assert.Equal(t, 1, contacts.totalCreates(), "exactly one create per unresolved reference")
		assert.Equal(t, 3, contacts.totalLookups())
		assert.Equal(t, []string{"c-1"}, messages.acceptedContacts())
	})

	t.Run("bundling: shared email dispatches once, first contact wins", func(t *testing.T) {
		shared1 := domain.ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-1", Email: "fam@example.com"}
		shared2 := domain.ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-2", Email: "fam@example.com"}

		contacts := newFakeContactService()
		messages := newFakeMessageService()
		seedContact(contacts, shared1, "c-1", 0)
		seedContact(contacts, shared2, "c-2", 0)

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(shared1, shared2))

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result domain.SagaResult
		require.NoError(t, env.GetWorkflowResult(&result))
		assert.Equal(t, 2, result.ContactsResolved)
		assert.Equal(t, 1, result.MessagesCreated, "shared email bundles into one message")
		assert.Equal(t, []string{"c-1"}, messages.acceptedContacts(),
			"representative is the first contact by input order")
	})

	t.Run("barrier: no dispatch before every contact resolves", func(t *testing.T) {
		contacts := newFakeContactService()
		messages := newFakeMessageService()
		seedContact(contacts, ref1, "c-1", 0)
		seedContact(contacts, ref2, "c-2", 3) // second branch resolves via polling, much later
		messages.barrier = func() bool { return contacts.resolved() == 2 }

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(ref1, ref2))

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())
		assert.False(t, messages.barrierViolated,
			"a dispatch started before all resolution branches completed")
		assert.Len(t, messages.acceptedContacts(), 2)
	})

	t.Run("polling terminates: ten attempts then the saga fails", func(t *testing.T) {
		contacts := newFakeContactService()
		messages := newFakeMessageService()
		seedContact(contacts, ref1, "", -1) // never materializes

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(ref1))

		require.True(t, env.IsWorkflowCompleted())
		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, TypeResolutionFailed, appErr.Type())

		// One initial lookup plus exactly ten poll attempts.
		assert.Equal(t, 11, contacts.totalLookups())
		assert.Equal(t, 1, contacts.totalCreates())
		assert.Empty(t, messages.acceptedContacts(), "no dispatch after a failed resolution")
	})

	t.Run("resolution failure fails the whole saga, not one branch", func(t *testing.T) {
		contacts := newFakeContactService()
		messages := newFakeMessageService()
		seedContact(contacts, ref1, "c-1", 0)
		seedContact(contacts, ref2, "", -1)

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(ref1, ref2))

		require.Error(t, env.GetWorkflowError())
		assert.Empty(t, messages.acceptedContacts(),
			"a resolved sibling must not be messaged when the saga fails")
	})

	t.Run("dispatch rejection is isolated to its unit", func(t *testing.T) {
		contacts := newFakeContactService()
		messages := newFakeMessageService()
		seedContact(contacts, ref1, "c-1", 0)
		seedContact(contacts, ref2, "c-2", 0)
		messages.reject["c-2"] = "unknown template"

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(ref1, ref2))

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError(), "dispatch rejection must not fail the saga")

		var result domain.SagaResult
		require.NoError(t, env.GetWorkflowResult(&result))
		assert.Equal(t, domain.SagaCompleted, result.Outcome)
		assert.Equal(t, 1, result.MessagesCreated)
		require.Len(t, result.DispatchFailures, 1)
		assert.Equal(t, "c-2", result.DispatchFailures[0].ContactID)
		assert.Contains(t, result.DispatchFailures[0].Reason, "rejected")
		assert.Equal(t, []string{"c-1"}, messages.acceptedContacts())
	})

	t.Run("invalid request fails validation before any step", func(t *testing.T) {
		contacts := newFakeContactService()
		messages := newFakeMessageService()

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, domain.NotificationRequest{})

		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, TypeValidation, appErr.Type())
		assert.True(t, appErr.NonRetryable())
		assert.Equal(t, 0, contacts.totalLookups())
	})
}

// TestNotificationWorkflowDeterminism re-executes the same saga and expects
// identical observable results, the replay-safety contract the orchestrator
// depends on.
func TestNotificationWorkflowDeterminism(t *testing.T) {
	ref1 := domain.ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-1", Email: "fam@example.com"}
	ref2 := domain.ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-2", Email: "fam@example.com"}
	ref3 := domain.ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-3"}

	var firstAccepted []string
	for i := 0; i < 5; i++ {
		contacts := newFakeContactService()
		messages := newFakeMessageService()
		seedContact(contacts, ref1, "c-1", 0)
		seedContact(contacts, ref2, "c-2", 1)
		seedContact(contacts, ref3, "c-3", 0)

		env := newEnv(t, contacts, messages)
		env.ExecuteWorkflow(NotificationWorkflow, requestWith(ref1, ref2, ref3))
		require.NoError(t, env.GetWorkflowError())

		var result domain.SagaResult
		require.NoError(t, env.GetWorkflowResult(&result))
		assert.Equal(t, 2, result.MessagesCreated, "one bundle plus one singleton")

		// Dispatch completion order among independent units may vary; the
		// dispatched set and counts may not.
		accepted := messages.acceptedContacts()
		if i == 0 {
			firstAccepted = accepted
			continue
		}
		assert.ElementsMatch(t, firstAccepted, accepted, "execution %d diverged", i)
	}
}
