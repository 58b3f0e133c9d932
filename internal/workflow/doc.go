// Package workflow implements the notification saga orchestrator as a
// Temporal workflow. The control flow is: fan out one resolution branch per
// contact reference, barrier on all of them, bundle the resolved contacts
// into message units in-process, then fan out one dispatch per unit.
//
// Everything in this package is deterministic workflow code: no direct I/O,
// no wall-clock reads, no unordered iteration that could change observable
// scheduling across replays. All side effects happen in activities routed to
// the contact and message task queues; retry and backoff — including the
// eventual-consistency polling loop — are expressed as activity retry
// policies and executed by the Temporal server, never as in-workflow loops.
package workflow
