// Package worker builds and registers the Temporal workers backing the
// notification saga. Each step type gets its own worker polling its own
// queue, so resolution bursts cannot starve dispatch and neither can starve
// the orchestration queue's scheduling decisions.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-notify/internal/contact"
	"github.com/ahrav/go-notify/internal/message"
	"github.com/ahrav/go-notify/internal/workflow"
	"github.com/ahrav/go-notify/pkg/activity"
)

// RegisterWorkflow registers the saga orchestrator on an orchestration-queue
// worker. Orchestration workers register no activities: workflow tasks are
// pure scheduling and must never wait behind activity I/O.
func RegisterWorkflow(w sdkworker.Worker) {
	w.RegisterWorkflow(workflow.NotificationWorkflow)
}

// RegisterContactActivities registers the resolution activities on a
// contact-queue worker.
func RegisterContactActivities(w sdkworker.Worker, base activity.BaseActivities, svc contact.Service) {
	a := contact.NewActivities(base, svc)
	w.RegisterActivity(a.LookupContact)
	w.RegisterActivity(a.CreateContact)
	w.RegisterActivity(a.PollContact)
}

// RegisterMessageActivities registers the dispatch activity on a
// message-queue worker.
func RegisterMessageActivities(w sdkworker.Worker, base activity.BaseActivities, svc message.Service) {
	a := message.NewActivities(base, svc)
	w.RegisterActivity(a.CreateMessage)
}
