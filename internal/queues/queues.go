// Package queues defines the task-queue routing for the notification saga.
// Each step type runs on its own queue so the worker pools scale
// independently: contact resolution is slow and bursty (new contacts poll for
// seconds), message dispatch is uniformly fast, and orchestration must never
// wait behind either — a starved orchestration queue stalls scheduling for
// every in-flight saga, not just the slow ones.
package queues

import "fmt"

// StepType identifies a saga phase for queue routing.
type StepType string

const (
	// StepOrchestration is the workflow itself: pure scheduling decisions.
	StepOrchestration StepType = "orchestration"

	// StepContactResolution covers the lookup/create/poll activities.
	StepContactResolution StepType = "contact-resolution"

	// StepMessageDispatch covers the message-creation activity.
	StepMessageDispatch StepType = "message-dispatch"
)

// Default queue names, matching the deployment's worker roles.
const (
	Orchestration   = "notification-workflow"
	ContactActivity = "contact-activity"
	MessageActivity = "message-activity"
)

// Routes maps step types to queue names. It is read-only configuration passed
// into worker bootstrapping; nothing mutates it at runtime.
type Routes map[StepType]string

// DefaultRoutes returns the standard three-queue assignment.
func DefaultRoutes() Routes {
	return Routes{
		StepOrchestration:     Orchestration,
		StepContactResolution: ContactActivity,
		StepMessageDispatch:   MessageActivity,
	}
}

// Queue returns the queue assigned to step, falling back to the default
// assignment when the route map has no entry.
func (r Routes) Queue(step StepType) string {
	if q, ok := r[step]; ok && q != "" {
		return q
	}
	return DefaultRoutes()[step]
}

// Validate checks every step type has a queue and no two step types share
// one. Shared queues would silently reintroduce the head-of-line blocking the
// routing exists to prevent.
func (r Routes) Validate() error {
	seen := make(map[string]StepType, len(r))
	for _, step := range []StepType{StepOrchestration, StepContactResolution, StepMessageDispatch} {
		q := r.Queue(step)
		if prev, ok := seen[q]; ok {
			return fmt.Errorf("queue routing: %q and %q share queue %q", prev, step, q)
		}
		seen[q] = step
	}
	return nil
}
