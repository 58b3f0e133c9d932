package workflow

import (
	"context"
	"sync"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"github.com/ahrav/go-notify/internal/contact"
	"github.com/ahrav/go-notify/internal/domain"
	"github.com/ahrav/go-notify/internal/message"
	pkgactivity "github.com/ahrav/go-notify/pkg/activity"
)

// fakeContactService simulates the eventually-consistent contact store.
// missesBefore[k] lookups return not-found before the contact in contacts[k]
// becomes visible; keys absent from contacts are never found.
type fakeContactService struct {
	mu           sync.Mutex
	contacts     map[string]domain.ResolvedContact
	missesBefore map[string]int
	lookups      map[string]int
	creates      map[string]int
	resolvedN    int
}

func newFakeContactService() *fakeContactService {
	return &fakeContactService{
		contacts:     make(map[string]domain.ResolvedContact),
		missesBefore: make(map[string]int),
		lookups:      make(map[string]int),
		creates:      make(map[string]int),
	}
}

func refKey(idType, idValue string) string { return idType + ":" + idValue }

func (f *fakeContactService) Lookup(_ context.Context, idType, idValue string) (*domain.ResolvedContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := refKey(idType, idValue)
	f.lookups[k]++
	if f.lookups[k] <= f.missesBefore[k] {
		return nil, nil
	}
	c, ok := f.contacts[k]
	if !ok {
		return nil, nil
	}
	f.resolvedN++
	return &c, nil
}

func (f *fakeContactService) Create(_ context.Context, ref domain.ContactRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates[refKey(ref.ExternalIDType, ref.ExternalIDValue)]++
	return nil
}

func (f *fakeContactService) totalLookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.lookups {
		n += c
	}
	return n
}

func (f *fakeContactService) totalCreates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.creates {
		n += c
	}
	return n
}

func (f *fakeContactService) resolved() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolvedN
}

// fakeMessageService records accepted dispatches and rejects the configured
// contacts. The optional barrier callback is evaluated on every dispatch so
// tests can detect dispatches that start before all resolutions finished.
type fakeMessageService struct {
	mu              sync.Mutex
	reject          map[string]string
	accepted        []string
	barrier         func() bool
	barrierViolated bool
}

func newFakeMessageService() *fakeMessageService {
	return &fakeMessageService{reject: make(map[string]string)}
}

func (f *fakeMessageService) CreateMessage(_ context.Context, contactID, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.barrier != nil && !f.barrier() {
		f.barrierViolated = true
	}
	if body, ok := f.reject[contactID]; ok {
		return &message.RejectionError{StatusCode: 422, Body: body}
	}
	f.accepted = append(f.accepted, contactID)
	return nil
}

func (f *fakeMessageService) acceptedContacts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.accepted...)
}

// newEnv builds a workflow test environment with the real activities wired to
// the fakes, so retry policies, queue routing, and error classification all
// run exactly as in production.
func newEnv(t *testing.T, contacts *fakeContactService, messages *fakeMessageService) *testsuite.TestWorkflowEnvironment {
	t.Helper()

	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestWorkflowEnvironment()

	base := pkgactivity.NewBaseActivities(nil)
	ca := contact.NewActivities(base, contacts)
	ma := message.NewActivities(base, messages)

	env.RegisterActivity(ca.LookupContact)
	env.RegisterActivity(ca.CreateContact)
	env.RegisterActivity(ca.PollContact)
	env.RegisterActivity(ma.CreateMessage)
	return env
}

// seedContact registers a contact ref with the fake store. misses is the
// number of not-found responses before the contact becomes visible; a
// negative value means the contact never materializes.
func seedContact(f *fakeContactService, ref domain.ContactRef, id string, misses int) {
	k := refKey(ref.ExternalIDType, ref.ExternalIDValue)
	if misses < 0 {
		return
	}
	f.missesBefore[k] = misses
	f.contacts[k] = domain.ResolvedContact{
		ID:              id,
		ExternalIDType:  ref.ExternalIDType,
		ExternalIDValue: ref.ExternalIDValue,
		Email:           ref.Email,
		Phone:           ref.Phone,
		Status:          domain.ContactActive,
	}
}

func requestWith(refs ...domain.ContactRef) domain.NotificationRequest {
	return domain.NotificationRequest{
		EventID:   "6f1f9a52-9f3e-4a21-8d6b-0c9a7a6b1e42",
		EventType: domain.EventTypeRxOrder,
		Payload: domain.NotificationPayload{
			TemplateID: "rx-ready",
			Contacts:   refs,
		},
	}
}
