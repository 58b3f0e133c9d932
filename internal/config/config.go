// Package config loads process configuration from the environment. One flat
// struct covers both binaries; each reads the fields it needs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/ahrav/go-notify/internal/queues"
	"github.com/ahrav/go-notify/internal/worker"
)

// Config is the environment-driven configuration for the worker and ingest
// processes.
type Config struct {
	// Temporal connection.
	TemporalHostPort  string `env:"TEMPORAL_HOST_PORT" envDefault:"localhost:7233"`
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE" envDefault:"default"`

	// Collaborator service base URLs. Both default to the local aggregate
	// service used in development.
	ContactServiceURL string `env:"CONTACT_SERVICE_URL" envDefault:"http://localhost:8080"`
	MessageServiceURL string `env:"MESSAGE_SERVICE_URL" envDefault:"http://localhost:8080"`

	// WorkerRoles selects which pools this worker process runs. Production
	// runs one role per deployment so each pool scales on its own queue
	// depth; development runs all three.
	WorkerRoles []string `env:"WORKER_ROLES" envSeparator:"," envDefault:"orchestration,contact,message"`

	// Queue overrides. Blank means the default assignment.
	OrchestrationQueue string `env:"ORCHESTRATION_QUEUE"`
	ContactQueue       string `env:"CONTACT_QUEUE"`
	MessageQueue       string `env:"MESSAGE_QUEUE"`

	// IngestAddr is the listen address of the event ingestion endpoint.
	IngestAddr string `env:"INGEST_ADDR" envDefault:":8081"`
}

// Load parses configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Routes materializes the queue routing, applying any overrides.
func (c Config) Routes() queues.Routes {
	routes := queues.DefaultRoutes()
	if c.OrchestrationQueue != "" {
		routes[queues.StepOrchestration] = c.OrchestrationQueue
	}
	if c.ContactQueue != "" {
		routes[queues.StepContactResolution] = c.ContactQueue
	}
	if c.MessageQueue != "" {
		routes[queues.StepMessageDispatch] = c.MessageQueue
	}
	return routes
}

// Roles parses and validates the configured worker roles.
func (c Config) Roles() ([]worker.Role, error) {
	roles := make([]worker.Role, 0, len(c.WorkerRoles))
	for _, s := range c.WorkerRoles {
		role, err := worker.ParseRole(s)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("at least one worker role is required")
	}
	return roles, nil
}
