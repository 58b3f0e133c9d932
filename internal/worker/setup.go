package worker

import (
	"fmt"

	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-notify/internal/contact"
	"github.com/ahrav/go-notify/internal/message"
	"github.com/ahrav/go-notify/internal/queues"
	"github.com/ahrav/go-notify/pkg/activity"
	"github.com/ahrav/go-notify/pkg/events"
)

// Role selects which worker pools a process runs. A deployment can run all
// three in one process or scale each role independently, mirroring the queue
// separation.
type Role string

const (
	RoleOrchestration Role = "orchestration"
	RoleContact       Role = "contact"
	RoleMessage       Role = "message"
)

// AllRoles is the single-process development default.
func AllRoles() []Role {
	return []Role{RoleOrchestration, RoleContact, RoleMessage}
}

// ParseRole validates a role name from configuration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOrchestration, RoleContact, RoleMessage:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown worker role %q", s)
	}
}

// Deps carries the collaborator clients and event sink the activity workers
// need. The orchestration role needs none of them.
type Deps struct {
	Contacts contact.Service
	Messages message.Service
	Events   events.EventSink
}

// Build constructs one Temporal worker per requested role, registered and
// bound to the queue the routes assign to its step type. Workers are returned
// unstarted; the caller owns their run lifecycle.
func Build(c client.Client, routes queues.Routes, deps Deps, roles []Role) ([]sdkworker.Worker, error) {
	if err := routes.Validate(); err != nil {
		return nil, err
	}

	base := activity.NewBaseActivities(deps.Events)

	workers := make([]sdkworker.Worker, 0, len(roles))
	for _, role := range roles {
		switch role {
		case RoleOrchestration:
			w := sdkworker.New(c, routes.Queue(queues.StepOrchestration), sdkworker.Options{})
			RegisterWorkflow(w)
			workers = append(workers, w)
		case RoleContact:
			if deps.Contacts == nil {
				return nil, fmt.Errorf("contact role requires a contact service client")
			}
			w := sdkworker.New(c, routes.Queue(queues.StepContactResolution), sdkworker.Options{})
			RegisterContactActivities(w, base, deps.Contacts)
			workers = append(workers, w)
		case RoleMessage:
			if deps.Messages == nil {
				return nil, fmt.Errorf("message role requires a message service client")
			}
			w := sdkworker.New(c, routes.Queue(queues.StepMessageDispatch), sdkworker.Options{})
			RegisterMessageActivities(w, base, deps.Messages)
			workers = append(workers, w)
		default:
			return nil, fmt.Errorf("unknown worker role %q", role)
		}
	}
	return workers, nil
}
